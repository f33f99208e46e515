package notify

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/sadopc/timesplit/internal/pomodoro"
	"github.com/sadopc/timesplit/internal/store"
)

type recorder struct {
	titles []string
	err    error
}

func (r *recorder) Notify(title, _ string) error {
	r.titles = append(r.titles, title)
	return r.err
}

func TestFormatCompletion(t *testing.T) {
	is := is.New(t)

	title, msg := FormatCompletion(pomodoro.Completion{
		Finished: pomodoro.Focus,
		Next:     pomodoro.ShortBreak,
		Entry:    &store.SessionLogEntry{Label: "essay"},
	})
	is.Equal(title, "Focus complete")
	is.Equal(msg, `"essay" done. Time for a Short Break.`)

	title, msg = FormatCompletion(pomodoro.Completion{Finished: pomodoro.LongBreak, Next: pomodoro.Focus})
	is.Equal(title, "Long Break over")
	is.Equal(msg, "Back to focus!")
}

func TestSendSwallowsErrors(t *testing.T) {
	is := is.New(t)
	r := &recorder{err: errors.New("no dbus")}

	Hydration(r)
	Wellness(r, "Stretch your neck")
	SessionComplete(r, pomodoro.Completion{Finished: pomodoro.ShortBreak, Next: pomodoro.Focus})

	is.Equal(r.titles, []string{"Hydration Reminder", "Wellness Reminder", "Short Break over"})
}

func TestNew(t *testing.T) {
	is := is.New(t)
	_, silent := New(false).(Silent)
	is.True(silent)
	_, desktop := New(true).(Desktop)
	is.True(desktop)
	is.NoErr(Silent{}.Notify("x", "y"))
}
