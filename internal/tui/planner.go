package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/store"
)

var (
	eventHours   = hourOptions()
	eventMinutes = []string{"00", "15", "30", "45"}
)

func hourOptions() []string {
	out := make([]string, 24)
	for h := range out {
		out[h] = fmt.Sprintf("%02d", h)
	}
	return out
}

// plannerForm holds form values behind a pointer so they survive value
// copies of the model.
type plannerForm struct {
	text     string
	date     string
	priority store.Priority
	sync     bool

	summary   string
	startHour string
	startMin  string
	endHour   string
	endMin    string
}

type plannerModel struct {
	state     *app.State
	maxEvents int
	width     int
	height    int

	tasks  []store.IndexedTask
	cursor int

	events  []calendar.Event
	syncing bool

	formActive bool
	form       *huh.Form
	formType   string // "task" or "event"
	f          *plannerForm
}

func newPlannerModel(st *app.State, maxEvents int) plannerModel {
	p := plannerModel{
		state:     st,
		maxEvents: maxEvents,
		f:         &plannerForm{},
	}
	p.refresh()
	return p
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// refresh reloads the active mode's tasks in display order.
func (p *plannerModel) refresh() {
	p.tasks = p.state.Tasks.ListSorted(p.state.Mode())
	if p.cursor >= len(p.tasks) {
		p.cursor = max(0, len(p.tasks)-1)
	}
}

// fetchEvents lists upcoming events off the UI goroutine.
func (p *plannerModel) fetchEvents() tea.Cmd {
	p.syncing = true
	return fetchEventsCmd(p.state.Calendar, p.maxEvents)
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case eventsMsg:
		p.events = msg.events
		p.syncing = false
		return p, nil

	case calendarDoneMsg:
		if msg.err != nil {
			return p, statusCmd(fmt.Sprintf("Calendar: %v", msg.err), true)
		}
		return p, tea.Batch(statusCmd(msg.what, false), p.fetchEvents())

	case tea.KeyMsg:
		return p.updateList(msg)
	}
	return p, nil
}

func (p plannerModel) updateList(msg tea.KeyMsg) (plannerModel, tea.Cmd) {
	mode := p.state.Mode()
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.tasks)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if len(p.tasks) > 0 {
			if err := p.state.Tasks.ToggleDone(mode, p.tasks[p.cursor].Index); err != nil {
				return p, statusCmd(err.Error(), true)
			}
			p.refresh()
		}
	case key.Matches(msg, keys.Delete):
		if len(p.tasks) > 0 {
			text := p.tasks[p.cursor].Text
			if err := p.state.Tasks.Remove(mode, p.tasks[p.cursor].Index); err != nil {
				return p, statusCmd(err.Error(), true)
			}
			p.refresh()
			return p, statusCmd(fmt.Sprintf("Deleted %q", text), false)
		}
	case key.Matches(msg, keys.New):
		return p.showTaskForm()
	case key.Matches(msg, keys.NewEvent):
		return p.showEventForm()
	case key.Matches(msg, keys.Sync):
		return p, p.fetchEvents()
	}
	return p, nil
}

func validateDate(s string) error {
	_, err := store.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateNotEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}

func (p plannerModel) showTaskForm() (plannerModel, tea.Cmd) {
	*p.f = plannerForm{
		date:     store.DateOf(time.Now()).String(),
		priority: store.PriorityMedium,
	}
	p.formType = "task"

	priorities := make([]huh.Option[store.Priority], 0, 3)
	for _, pr := range store.Priorities() {
		priorities = append(priorities, huh.NewOption(string(pr), pr))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("Enter new task description...").
				Value(&p.f.text).Validate(validateNotEmpty("Task")),
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(&p.f.date).Validate(validateDate),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorities...).Value(&p.f.priority),
			huh.NewConfirm().Title("Sync as all-day event?").Value(&p.f.sync),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) showEventForm() (plannerModel, tea.Cmd) {
	now := time.Now()
	*p.f = plannerForm{
		date:      store.DateOf(now).String(),
		startHour: fmt.Sprintf("%02d", (now.Hour()+1)%24),
		startMin:  "00",
		endHour:   fmt.Sprintf("%02d", (now.Hour()+2)%24),
		endMin:    "00",
	}
	p.formType = "event"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Event summary").Placeholder("e.g., Doctor's Appointment").
				Value(&p.f.summary).Validate(validateNotEmpty("Event summary")),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&p.f.date).Validate(validateDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Start hour").Options(huh.NewOptions(eventHours...)...).Value(&p.f.startHour),
			huh.NewSelect[string]().Title("Start minute").Options(huh.NewOptions(eventMinutes...)...).Value(&p.f.startMin),
			huh.NewSelect[string]().Title("End hour").Options(huh.NewOptions(eventHours...)...).Value(&p.f.endHour),
			huh.NewSelect[string]().Title("End minute").Options(huh.NewOptions(eventMinutes...)...).Value(&p.f.endMin),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plannerModel) updateForm(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		p.formActive = false
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		if p.formType == "event" {
			return p, p.submitEvent()
		}
		return p, p.submitTask()
	case huh.StateAborted:
		p.formActive = false
		return p, nil
	}
	return p, cmd
}

// submitTask adds the task right away; the calendar event, if requested, is
// created in the background.
func (p *plannerModel) submitTask() tea.Cmd {
	deadline, err := store.ParseDate(strings.TrimSpace(p.f.date))
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	task := store.Task{Text: p.f.text, Deadline: deadline, Priority: p.f.priority}
	ev, err := p.state.StageTask(task)
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	p.refresh()

	if !p.f.sync {
		return statusCmd("Task added", false)
	}
	adapter := p.state.Calendar
	return func() tea.Msg {
		err := ev.Sync(context.Background(), adapter)
		return calendarDoneMsg{what: "Task added as an all-day event", err: err}
	}
}

func (p *plannerModel) submitEvent() tea.Cmd {
	start, end, err := p.f.eventRange()
	if err != nil {
		return statusCmd(err.Error(), true)
	}
	adapter := p.state.Calendar
	summary := strings.TrimSpace(p.f.summary)
	return func() tea.Msg {
		err := adapter.CreateTimedEvent(context.Background(), summary, start, end)
		return calendarDoneMsg{what: fmt.Sprintf("Event %q added", summary), err: err}
	}
}

func (f plannerForm) eventRange() (time.Time, time.Time, error) {
	day, err := store.ParseDate(strings.TrimSpace(f.date))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	at := func(hh, mm string) (time.Time, error) {
		t, err := time.Parse("15:04", hh+":"+mm)
		if err != nil {
			return time.Time{}, fmt.Errorf("time %s:%s: %w", hh, mm, store.ErrInvalidInput)
		}
		return time.Date(day.Year, day.Month, day.Day, t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	start, err := at(f.startHour, f.startMin)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := at(f.endHour, f.endMin)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("End time must be after start time")
	}
	return start, end, nil
}

func (p plannerModel) view() string {
	w := p.width - 4
	pal := paletteFor(p.state.Theme())

	if p.formActive && p.form != nil {
		title := "Add Task"
		if p.formType == "event" {
			title = "Add Event"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", p.form.View())
		return pal.activePanel.Width(w).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		p.renderEvents(w, pal),
		p.renderTasks(w, pal),
	)
}

func (p plannerModel) renderEvents(w int, pal palette) string {
	title := pal.selected.Render("Upcoming Calendar Events")
	var rows []string
	rows = append(rows, title)

	switch {
	case p.syncing:
		rows = append(rows, mutedStyle.Render("  Syncing..."))
	case len(p.events) == 0:
		rows = append(rows, mutedStyle.Render("  No upcoming events found. Press c to sync."))
	default:
		for _, e := range p.events {
			rows = append(rows, fmt.Sprintf("  🗓  %s %s", e.Summary, mutedStyle.Render("("+e.When()+")")))
		}
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plannerModel) renderTasks(w int, pal palette) string {
	title := pal.selected.Render(fmt.Sprintf("%s Tasks", p.state.Mode()))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, t := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = pal.selected
		}
		check := "[ ]"
		if t.Done {
			check = "[x]"
			style = doneStyle
		}
		pr := priorityStyle(t.Priority).Width(8).Render(string(t.Priority))
		due := mutedStyle.Render("Due: " + t.Deadline.String())
		rows = append(rows, fmt.Sprintf("%s%s %s %s %s", cursor, check, style.Render(fmt.Sprintf("%-32s", t.Text)), pr, due))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  v: new event  space: done  d: delete  c: sync"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
