package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/pomodoro"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewPlanner
	viewAnalytics
)

var viewNames = []string{"Timer", "Planner", "Analytics"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives the clock-independent parts of the UI: the hydration
// reminder and redraws.
type tickMsg time.Time

// scheduledMsg delivers a callback registered with the Scheduler.
type scheduledMsg struct {
	id uint64
}

type sessionDoneMsg struct {
	completion pomodoro.Completion
}

type eventsMsg struct {
	events []calendar.Event
}

type calendarDoneMsg struct {
	what string
	err  error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
