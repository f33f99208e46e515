package pomodoro

import "math/rand/v2"

const DefaultHydrationMinutes = 20

// Reminder is a repeating countdown advanced once per second by the host,
// such as the hydration reminder.
type Reminder struct {
	interval int
	left     int
}

func NewReminder(minutes int) *Reminder {
	if minutes <= 0 {
		minutes = DefaultHydrationMinutes
	}
	return &Reminder{interval: minutes * 60, left: minutes * 60}
}

// Tick counts down one second and reports whether the reminder fired. A fired
// reminder rewinds to its full interval.
func (r *Reminder) Tick() bool {
	r.left--
	if r.left <= 0 {
		r.left = r.interval
		return true
	}
	return false
}

func (r *Reminder) Left() int { return r.left }

var wellnessTips = []string{
	"Hydrate now!",
	"Take a 5-min eye break!",
	"Stretch your neck",
}

// WellnessTip picks a tip to show when a break ends.
func WellnessTip() string {
	return wellnessTips[rand.IntN(len(wellnessTips))]
}
