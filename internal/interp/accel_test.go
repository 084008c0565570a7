package interp

import (
	"math"
	"testing"
)

func TestAccel_HitAfterMiss(t *testing.T) {
	xs := linspace(0, 10, 101)
	acc := NewAccel()

	i := acc.Find(xs, 7.33)
	if xs[i] > 7.33 || xs[i+1] <= 7.33 {
		t.Fatalf("wrong interval %d for 7.33", i)
	}
	if acc.Misses() != 1 || acc.Hits() != 0 {
		t.Fatalf("first lookup: hits=%d misses=%d", acc.Hits(), acc.Misses())
	}

	acc.Find(xs, 7.35)
	if acc.Hits() != 1 {
		t.Errorf("neighbouring lookup should hit, misses=%d", acc.Misses())
	}
}

func TestAccel_SharedAcrossSiblingSplines(t *testing.T) {
	// Four quantities tabulated on the same abscissa, all evaluated at one
	// point through one accelerator: exactly one interval search.
	xs := linspace(0, 1, 50)
	splines := make([]*Spline, 4)
	for k, f := range []func(float64) float64{
		math.Sin,
		math.Cos,
		func(x float64) float64 { return x * x },
		math.Sqrt,
	} {
		s, err := New(Cubic, xs, sampled(xs, f))
		if err != nil {
			t.Fatal(err)
		}
		splines[k] = s
	}

	acc := NewAccel()
	for _, s := range splines {
		s.Eval(0.6180, acc)
	}
	if acc.Misses() != 1 {
		t.Errorf("interval searches: got %d, want 1", acc.Misses())
	}
	if acc.Hits() != 3 {
		t.Errorf("cache hits: got %d, want 3", acc.Hits())
	}
}

func TestAccel_EndpointLookups(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	acc := NewAccel()
	if i := acc.Find(xs, 3); i != 2 {
		t.Errorf("upper endpoint: got interval %d, want 2", i)
	}
	if i := acc.Find(xs, 0); i != 0 {
		t.Errorf("lower endpoint: got interval %d, want 0", i)
	}
	if i := acc.Find(xs, -5); i != 0 {
		t.Errorf("below range: got interval %d, want 0", i)
	}
	if i := acc.Find(xs, 9); i != 2 {
		t.Errorf("above range: got interval %d, want 2", i)
	}
}

func TestAccel_Reset(t *testing.T) {
	xs := linspace(0, 1, 20)
	acc := NewAccel()
	acc.Find(xs, 0.7)
	acc.Find(xs, 0.7)
	acc.Reset()
	if acc.Hits() != 0 || acc.Misses() != 0 {
		t.Errorf("counters survive reset: hits=%d misses=%d", acc.Hits(), acc.Misses())
	}
}
