package pomodoro

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/timesplit/internal/store"
)

// Recorder receives the log entry of every completed focus session.
type Recorder interface {
	Append(store.SessionLogEntry)
}

// Context supplies the label and mode a completed focus session is logged
// under.
type Context interface {
	Label() string
	Mode() store.Mode
}

// Completion describes a finished session. Entry is set only for Focus.
type Completion struct {
	Finished SessionType
	Next     SessionType
	Entry    *store.SessionLogEntry
}

type Config struct {
	FocusMinutes int
	Now          func() time.Time
	OnComplete   func(Completion)
}

// Timer is the Pomodoro state machine. It is not safe for concurrent use:
// every method, including scheduled ticks, must run on the same goroutine.
type Timer struct {
	sessionType  SessionType
	timeLeft     int
	running      bool
	focusMinutes int

	sched    Scheduler
	cancel   CancelFunc
	recorder Recorder
	ctx      Context
	now      func() time.Time
	onDone   func(Completion)
}

// New returns a stopped timer preloaded with a full Focus session.
func New(cfg Config, sched Scheduler, rec Recorder, ctx Context) *Timer {
	if cfg.FocusMinutes <= 0 {
		cfg.FocusMinutes = DefaultFocusMinutes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	t := &Timer{
		sessionType:  Focus,
		focusMinutes: cfg.FocusMinutes,
		sched:        sched,
		recorder:     rec,
		ctx:          ctx,
		now:          cfg.Now,
		onDone:       cfg.OnComplete,
	}
	t.timeLeft = t.Duration(Focus)
	return t
}

func (t *Timer) SessionType() SessionType { return t.sessionType }
func (t *Timer) TimeLeft() int            { return t.timeLeft }
func (t *Timer) Running() bool            { return t.running }
func (t *Timer) FocusMinutes() int        { return t.focusMinutes }

// Duration returns the configured length of a session type in seconds.
func (t *Timer) Duration(st SessionType) int {
	switch st {
	case ShortBreak:
		return ShortBreakSeconds
	case LongBreak:
		return LongBreakSeconds
	}
	return t.focusMinutes * 60
}

// Progress is the elapsed fraction of the current session.
func (t *Timer) Progress() float64 {
	total := t.Duration(t.sessionType)
	if total <= 0 {
		return 1
	}
	return float64(total-t.timeLeft) / float64(total)
}

// SetSessionType switches to st and reloads its full duration. It is
// rejected while the timer runs.
func (t *Timer) SetSessionType(st SessionType) error {
	if t.running {
		return fmt.Errorf("set session type to %s while running: %w", st, ErrInvalidTransition)
	}
	t.sessionType = st
	t.timeLeft = t.Duration(st)
	return nil
}

func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
	if t.timeLeft <= 0 {
		t.timeLeft = 0
		t.complete()
		return
	}
	t.schedule()
}

func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.cancelPending()
}

func (t *Timer) Reset() {
	t.Stop()
	t.SetSessionType(t.sessionType)
}

// Tick advances the countdown by one second. Ticks that arrive while the
// timer is stopped are ignored.
func (t *Timer) Tick() {
	t.cancel = nil
	if !t.running {
		return
	}
	if t.timeLeft > 0 {
		t.timeLeft--
	}
	if t.timeLeft == 0 {
		t.complete()
		return
	}
	t.schedule()
}

// SetCustomFocusDuration changes the Focus length. A stopped Focus session
// picks up the new length immediately.
func (t *Timer) SetCustomFocusDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("focus duration %d minutes: %w", minutes, ErrInvalidInput)
	}
	t.focusMinutes = minutes
	if t.sessionType == Focus && !t.running {
		t.timeLeft = t.Duration(Focus)
	}
	return nil
}

func (t *Timer) complete() {
	t.running = false
	t.cancelPending()

	c := Completion{Finished: t.sessionType}
	if t.sessionType == Focus {
		entry := store.SessionLogEntry{
			Timestamp:   t.now(),
			Label:       t.label(),
			DurationSec: t.Duration(Focus),
			Mode:        t.mode(),
		}
		if t.recorder != nil {
			t.recorder.Append(entry)
		}
		c.Entry = &entry
		c.Next = ShortBreak
	} else {
		c.Next = Focus
	}

	t.sessionType = c.Next
	t.timeLeft = t.Duration(c.Next)

	if t.onDone != nil {
		t.onDone(c)
	}
}

func (t *Timer) label() string {
	if t.ctx == nil {
		return UnlabeledSession
	}
	if l := strings.TrimSpace(t.ctx.Label()); l != "" {
		return l
	}
	return UnlabeledSession
}

func (t *Timer) mode() store.Mode {
	if t.ctx == nil {
		return store.ModeWork
	}
	return t.ctx.Mode()
}

func (t *Timer) schedule() {
	t.cancelPending()
	if t.sched == nil {
		return
	}
	t.cancel = t.sched.Schedule(tickInterval, t.Tick)
}

func (t *Timer) cancelPending() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
