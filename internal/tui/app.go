package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/export"
	"github.com/sadopc/timesplit/internal/notify"
	"github.com/sadopc/timesplit/internal/pomodoro"
	"github.com/sadopc/timesplit/internal/store"
)

type Options struct {
	Backend             store.Backend
	Calendar            calendar.Adapter
	Notifier            notify.Notifier
	DefaultFocusMinutes int
	HydrationMinutes    int
	MaxEvents           int
	ExportDir           string
}

// App is the root Bubble Tea model.
type App struct {
	state    *app.State
	sched    *Scheduler
	backend  store.Backend
	notifier notify.Notifier
	exportTo string
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer     pomodoroModel
	planner   plannerModel
	analytics analyticsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(data *store.AppData, opts Options) App {
	if opts.Notifier == nil {
		opts.Notifier = notify.Silent{}
	}
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = 15
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	sched := NewScheduler()
	st := app.New(data, app.Options{
		DefaultFocusMinutes: opts.DefaultFocusMinutes,
		HydrationMinutes:    opts.HydrationMinutes,
		Scheduler:           sched,
		Calendar:            opts.Calendar,
		OnComplete:          sched.Completed,
	})

	h := help.New()
	h.ShowAll = false

	a := App{
		state:      st,
		sched:      sched,
		backend:    opts.Backend,
		notifier:   opts.Notifier,
		exportTo:   opts.ExportDir,
		activeView: viewTimer,
		timer:      newPomodoroModel(st),
		planner:    newPlannerModel(st, opts.MaxEvents),
		analytics:  newAnalyticsModel(st),
		help:       h,
	}
	a.analytics.refresh()
	return a
}

// State exposes the application state, e.g. for saving after the program
// exits.
func (a App) State() *app.State { return a.state }

// Save writes the document through the configured backend.
func (a App) Save() bool {
	if a.backend == nil {
		return false
	}
	return a.state.Save(a.backend)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		fetchEventsCmd(a.state.Calendar, a.planner.maxEvents),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchEventsCmd(adapter calendar.Adapter, n int) tea.Cmd {
	return func() tea.Msg {
		return eventsMsg{events: adapter.ListUpcoming(context.Background(), n)}
	}
}

func notifyCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// Update routes msg and then flushes whatever the timer scheduled while
// handling it.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	cmds := append([]tea.Cmd{cmd}, next.sched.drain()...)
	return next, tea.Batch(cmds...)
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.planner.setSize(a.width, contentHeight)
		a.analytics.setSize(a.width, contentHeight)
		a.analytics.refresh()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (form, label, breathing) gets every key.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Mode):
			m := a.state.ToggleMode()
			a.planner.refresh()
			a.analytics.refresh()
			a.status, a.statusErr = fmt.Sprintf("Switched to %s mode", m), false
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewPlanner
			a.planner.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewAnalytics
			a.analytics.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			a.planner.refresh()
			a.analytics.refresh()
			return a, nil
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.state.Hydration.Tick() {
			a.status, a.statusErr = "💧 Time for a cup of water!", false
			n := a.notifier
			cmds = append(cmds, notifyCmd(func() { notify.Hydration(n) }))
		}
		return a, tea.Batch(cmds...)

	case scheduledMsg:
		a.sched.fire(msg.id)
		return a, nil

	case sessionDoneMsg:
		return a.sessionDone(msg.completion)

	case eventsMsg, calendarDoneMsg:
		var cmd tea.Cmd
		a.planner, cmd = a.planner.update(msg)
		return a, cmd

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.statusErr = "Exported to "+msg.path, false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) sessionDone(c pomodoro.Completion) (App, tea.Cmd) {
	a.analytics.refresh()
	_, text := notify.FormatCompletion(c)
	a.status, a.statusErr = text, false

	n := a.notifier
	cmds := []tea.Cmd{notifyCmd(func() { notify.SessionComplete(n, c) })}
	if c.Finished.IsBreak() {
		tip := pomodoro.WellnessTip()
		a.status = text + "  " + tip
		cmds = append(cmds, notifyCmd(func() { notify.Wellness(n, tip) }))
	}
	return a, tea.Batch(cmds...)
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewTimer:
		return a.timer.capturing()
	case viewPlanner:
		return a.planner.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewPlanner:
		content = a.planner.view()
	case viewAnalytics:
		content = a.analytics.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	pal := paletteFor(a.state.Theme())

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, pal.activeTab.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(pal.primary).
		Render(fmt.Sprintf("TimeSplit %s %s", a.state.Theme().Icon, a.state.Mode()))
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	if t := a.state.Timer; t.Running() {
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %s %s", t.SessionType(), pomodoro.FormatClock(t.TimeLeft())))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	pal := paletteFor(a.state.Theme())
	rows := []string{titleStyle.Render("Export Sessions"), ""}
	for i, f := range export.Formats() {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = pal.selected
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(f)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return pal.activePanel.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats())-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats()[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format string) tea.Cmd {
	entries := a.state.Log.All()
	path := filepath.Join(a.exportTo, fmt.Sprintf("timesplit-export-%s.%s", time.Now().Format("2006-01-02"), format))
	return func() tea.Msg {
		if err := export.Write(format, entries, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
