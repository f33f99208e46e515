package pomodoro

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid transition")
)

// SessionType is the kind of countdown the timer is running.
type SessionType int

const (
	Focus SessionType = iota
	ShortBreak
	LongBreak
)

var sessionNames = map[SessionType]string{
	Focus:      "Focus",
	ShortBreak: "Short Break",
	LongBreak:  "Long Break",
}

func (t SessionType) String() string {
	if name, ok := sessionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SessionType(%d)", int(t))
}

func (t SessionType) IsBreak() bool {
	return t == ShortBreak || t == LongBreak
}

// SessionTypes returns every session type in selection order.
func SessionTypes() []SessionType { return []SessionType{Focus, ShortBreak, LongBreak} }

// Break durations are fixed; only Focus is configurable.
const (
	ShortBreakSeconds   = 5 * 60
	LongBreakSeconds    = 15 * 60
	DefaultFocusMinutes = 25

	// UnlabeledSession is logged when the user leaves the label empty.
	UnlabeledSession = "Unlabeled Session"

	tickInterval = time.Second
)

// FormatClock renders seconds as MM:SS, clamping negatives to zero.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
