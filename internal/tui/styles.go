package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/store"
)

// Color palette
var (
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")
	colorFg      = lipgloss.Color("#C0CAF5")
	colorSubtle  = lipgloss.Color("#414868")
)

var priorityColors = map[store.Priority]lipgloss.Color{
	store.PriorityHigh:   lipgloss.Color("#E74C3C"),
	store.PriorityMedium: lipgloss.Color("#F39C12"),
	store.PriorityLow:    lipgloss.Color("#3498DB"),
}

// Styles
var (
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

// palette holds the styles that follow the active mode's theme.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color

	activeTab   lipgloss.Style
	activePanel lipgloss.Style
	timer       lipgloss.Style
	accent      lipgloss.Style
	selected    lipgloss.Style
}

func paletteFor(t app.Theme) palette {
	primary := lipgloss.Color(t.Primary)
	secondary := lipgloss.Color(t.Secondary)
	return palette{
		primary:   primary,
		secondary: secondary,
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primary).
			Padding(0, 2),
		activePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),
		timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Align(lipgloss.Center),
		accent: lipgloss.NewStyle().
			Foreground(secondary),
		selected: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
	}
}

func priorityStyle(p store.Priority) lipgloss.Style {
	c, ok := priorityColors[p]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
