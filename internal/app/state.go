// Package app holds the explicit application state shared by the timer,
// the planner and the analytics views.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/pomodoro"
	"github.com/sadopc/timesplit/internal/store"
)

// Theme is the palette of a mode.
type Theme struct {
	Primary   string
	Secondary string
	Icon      string
}

var themes = map[store.Mode]Theme{
	store.ModeWork:  {Primary: "#3498db", Secondary: "#2980b9", Icon: "💻"},
	store.ModeStudy: {Primary: "#2ecc71", Secondary: "#27ae60", Icon: "📖"},
}

func ThemeFor(m store.Mode) Theme { return themes[m] }

type Options struct {
	DefaultFocusMinutes int
	HydrationMinutes    int
	Scheduler           pomodoro.Scheduler
	Calendar            calendar.Adapter
	Now                 func() time.Time
	OnComplete          func(pomodoro.Completion)
}

// State owns the loaded document and every component built on it. It is
// used from a single goroutine.
type State struct {
	Data      *store.AppData
	Tasks     *store.TaskStore
	Log       *store.SessionLog
	Timer     *pomodoro.Timer
	Hydration *pomodoro.Reminder
	Calendar  calendar.Adapter

	mode  store.Mode
	label string
}

func New(data *store.AppData, opts Options) *State {
	if data == nil {
		data = store.NewAppData()
	}
	data.Normalize()
	if opts.DefaultFocusMinutes <= 0 {
		opts.DefaultFocusMinutes = pomodoro.DefaultFocusMinutes
	}
	if opts.Calendar == nil {
		opts.Calendar = calendar.Offline{}
	}

	s := &State{
		Data:      data,
		Tasks:     store.NewTaskStore(data),
		Log:       store.NewSessionLog(data),
		Hydration: pomodoro.NewReminder(opts.HydrationMinutes),
		Calendar:  opts.Calendar,
		mode:      store.ModeWork,
	}
	s.Timer = pomodoro.New(pomodoro.Config{
		FocusMinutes: data.FocusMinutes(opts.DefaultFocusMinutes),
		Now:          opts.Now,
		OnComplete:   opts.OnComplete,
	}, opts.Scheduler, s.Log, s)
	return s
}

func (s *State) Mode() store.Mode { return s.mode }

// SetMode switches the active mode. Task lists are untouched.
func (s *State) SetMode(m store.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("set mode %q: %w", m, store.ErrInvalidInput)
	}
	s.mode = m
	return nil
}

func (s *State) ToggleMode() store.Mode {
	if s.mode == store.ModeWork {
		s.mode = store.ModeStudy
	} else {
		s.mode = store.ModeWork
	}
	return s.mode
}

func (s *State) Theme() Theme { return ThemeFor(s.mode) }

func (s *State) Label() string     { return s.label }
func (s *State) SetLabel(l string) { s.label = l }

// SetCustomFocusMinutes validates and applies a new focus length and records
// it in the document so it survives a restart.
func (s *State) SetCustomFocusMinutes(minutes int) error {
	if err := s.Timer.SetCustomFocusDuration(minutes); err != nil {
		return err
	}
	s.Data.CustomFocusMinutes = &minutes
	return nil
}

// TaskEvent is the all-day calendar event mirroring a task.
type TaskEvent struct {
	Summary string
	Date    time.Time
}

// Sync creates the event on cal.
func (ev TaskEvent) Sync(ctx context.Context, cal calendar.Adapter) error {
	if err := cal.CreateAllDayEvent(ctx, ev.Summary, ev.Date); err != nil {
		return fmt.Errorf("task added, calendar sync failed: %w", err)
	}
	return nil
}

// StageTask adds a task to the active mode and returns the event that
// mirrors it, leaving the calendar call to the caller.
func (s *State) StageTask(t store.Task) (TaskEvent, error) {
	if err := s.Tasks.Add(s.mode, t); err != nil {
		return TaskEvent{}, err
	}
	return TaskEvent{
		Summary: TaskEventSummary(s.mode, t.Text),
		Date:    t.Deadline.In(time.Local),
	}, nil
}

// AddTask adds a task to the active mode. With sync set it also creates an
// all-day calendar event on the deadline; a calendar failure is returned but
// the task stays added.
func (s *State) AddTask(ctx context.Context, t store.Task, sync bool) error {
	ev, err := s.StageTask(t)
	if err != nil || !sync {
		return err
	}
	return ev.Sync(ctx, s.Calendar)
}

// TaskEventSummary is the title of the all-day event mirroring a task.
func TaskEventSummary(m store.Mode, text string) string {
	return fmt.Sprintf("[%s] %s", m, strings.TrimSpace(text))
}

// Save writes the document through b, logging instead of failing.
func (s *State) Save(b store.Backend) bool {
	if err := b.Save(s.Data); err != nil {
		log.Printf("save app data: %v", err)
		return false
	}
	return true
}
