package viz

import (
	"strings"
	"testing"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

func TestSectionToASCII(t *testing.T) {
	records := []*orbit.MapResult{
		{Angles: []float64{0.5, 1.5, 2.5}, Fluxes: []float64{0.1, 0.2, 0.3}},
		nil,
	}
	out := SectionToASCII(records, 40, 10)
	if !strings.Contains(out, "•") {
		t.Error("no points plotted")
	}
	if lines := strings.Count(out, "\n"); lines != 10 {
		t.Errorf("height: %d", lines)
	}
}

func TestSectionToASCII_Empty(t *testing.T) {
	if out := SectionToASCII(nil, 10, 5); out != "No crossings detected" {
		t.Errorf("got %q", out)
	}
}
