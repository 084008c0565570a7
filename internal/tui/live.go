// Package tui renders live progress for long batch runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/viz"
)

// ProgressMsg reports the number of particles finished so far.
type ProgressMsg int

// DoneMsg ends the program.
type DoneMsg struct{}

// Model is a bubbletea model showing batch progress.
type Model struct {
	Total int

	done    int
	started time.Time
	spinner int
	quit    bool
}

// NewModel creates a progress view for a batch of total particles.
func NewModel(total int) Model {
	return Model{Total: total, started: time.Now()}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.done = int(msg)
		return m, nil
	case DoneMsg:
		m.quit = true
		return m, tea.Quit
	case tickMsg:
		m.spinner++
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quit {
		return ""
	}
	frac := 0.0
	if m.Total > 0 {
		frac = float64(m.done) / float64(m.Total)
	}
	bar := progressBar(frac, 40)
	elapsed := time.Since(m.started).Round(time.Second)

	var sb strings.Builder
	sb.WriteString(viz.Title.Render("poincare") + " " + spinnerFrame(m.spinner) + "\n")
	sb.WriteString(fmt.Sprintf("%s %d/%d particles  %s\n",
		bar, m.done, m.Total, viz.Subtle.Render(elapsed.String())))
	sb.WriteString(viz.Subtle.Render("q to abort") + "\n")
	return sb.String()
}

func progressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func spinnerFrame(i int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[i%len(frames)]
}
