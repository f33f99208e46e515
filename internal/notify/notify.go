package notify

import (
	"fmt"
	"log"

	"github.com/gen2brain/beeep"

	"github.com/sadopc/timesplit/internal/pomodoro"
)

// Notifier shows a message outside the terminal.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop posts native desktop notifications.
type Desktop struct{}

func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Silent drops every message.
type Silent struct{}

func (Silent) Notify(string, string) error { return nil }

// New returns Desktop when enabled, otherwise Silent.
func New(enabled bool) Notifier {
	if enabled {
		return Desktop{}
	}
	return Silent{}
}

func SessionComplete(n Notifier, c pomodoro.Completion) {
	title, msg := FormatCompletion(c)
	send(n, title, msg)
}

func Hydration(n Notifier) {
	send(n, "Hydration Reminder", "Time for a cup of water!")
}

func Wellness(n Notifier, tip string) {
	send(n, "Wellness Reminder", tip)
}

// FormatCompletion is the title and body shown when a session ends.
func FormatCompletion(c pomodoro.Completion) (string, string) {
	if c.Finished == pomodoro.Focus {
		label := pomodoro.UnlabeledSession
		if c.Entry != nil {
			label = c.Entry.Label
		}
		return "Focus complete", fmt.Sprintf("%q done. Time for a %s.", label, c.Next)
	}
	return c.Finished.String() + " over", "Back to focus!"
}

func send(n Notifier, title, msg string) {
	if err := n.Notify(title, msg); err != nil {
		log.Printf("notify %q: %v", title, err)
	}
}
