package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	breathFrame  = 100 * time.Millisecond
	breathMin    = 4
	breathMax    = 24
	breathPerCol = 2 // frames per column of growth
)

type breathFrameMsg struct {
	gen int
}

// breathModel is the guided breathing exercise: a bar that grows while the
// user breathes in and shrinks while they breathe out.
type breathModel struct {
	active   bool
	gen      int
	frames   int
	size     int
	inhaling bool
}

func (b breathModel) start() (breathModel, tea.Cmd) {
	b.active = true
	b.gen++
	b.size = breathMin
	b.frames = 0
	b.inhaling = true
	return b, b.next()
}

func (b breathModel) next() tea.Cmd {
	gen := b.gen
	return tea.Tick(breathFrame, func(time.Time) tea.Msg { return breathFrameMsg{gen: gen} })
}

func (b breathModel) update(msg tea.Msg) (breathModel, tea.Cmd) {
	switch msg := msg.(type) {
	case breathFrameMsg:
		if !b.active || msg.gen != b.gen {
			return b, nil
		}
		b.step()
		return b, b.next()
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "i":
			b.active = false
		}
	}
	return b, nil
}

func (b *breathModel) step() {
	b.frames++
	if b.frames%breathPerCol != 0 {
		return
	}
	if b.inhaling {
		b.size++
		if b.size >= breathMax {
			b.inhaling = false
		}
	} else {
		b.size--
		if b.size <= breathMin {
			b.inhaling = true
		}
	}
}

func (b breathModel) instruction() string {
	if b.inhaling {
		return "Breathe In..."
	}
	return "Breathe Out..."
}

func (b breathModel) view(w int, pal palette) string {
	bar := lipgloss.NewStyle().Foreground(pal.primary).Render(strings.Repeat("█", b.size*2))
	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Breathing Exercise"),
		"",
		pal.selected.Render(b.instruction()),
		"",
		bar,
		bar,
		bar,
		"",
		mutedStyle.Render("esc: close"),
	)
	return pal.activePanel.Width(w).Align(lipgloss.Center).Render(content)
}
