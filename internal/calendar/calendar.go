// Package calendar is the boundary to the external calendar service.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	ErrOffline      = errors.New("calendar not connected")
	ErrInvalidRange = errors.New("event end must be after start")
)

// Event is an upcoming calendar entry as the planner shows it.
type Event struct {
	Summary string
	Start   time.Time
	End     time.Time
	AllDay  bool
}

// When formats the event start the way the planner lists it.
func (e Event) When() string {
	if e.AllDay {
		return e.Start.Format("Jan 02, All-day")
	}
	return e.Start.Format("Jan 02, 03:04 PM")
}

// Adapter is everything the rest of the program needs from a calendar.
// Implementations never let transport errors escape ListUpcoming, and they
// bound every call with a timeout.
type Adapter interface {
	ListUpcoming(ctx context.Context, maxResults int) []Event
	CreateAllDayEvent(ctx context.Context, summary string, date time.Time) error
	CreateTimedEvent(ctx context.Context, summary string, start, end time.Time) error
}

const dateLayout = "2006-01-02"

// EventTime is the start or end of an event on the wire. All-day events set
// Date; timed events set DateTime and TimeZone.
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// EventBody is the event document sent to and received from the service.
type EventBody struct {
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

// AllDayBody builds the body of an all-day event. Start and end carry the
// same date.
func AllDayBody(summary string, date time.Time) EventBody {
	d := date.Format(dateLayout)
	return EventBody{
		Summary: summary,
		Start:   EventTime{Date: d},
		End:     EventTime{Date: d},
	}
}

// TimedBody builds the body of a timed event in start's time zone.
func TimedBody(summary string, start, end time.Time) (EventBody, error) {
	if !end.After(start) {
		return EventBody{}, fmt.Errorf("%q %s to %s: %w", summary, start.Format(time.Kitchen), end.Format(time.Kitchen), ErrInvalidRange)
	}
	tz := zoneName(start.Location())
	return EventBody{
		Summary: summary,
		Start:   EventTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:     EventTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
	}, nil
}

// Parse converts a wire body into an Event.
func (b EventBody) Parse() (Event, error) {
	e := Event{Summary: b.Summary}
	var err error
	if b.Start.DateTime == "" {
		e.AllDay = true
		if e.Start, err = time.ParseInLocation(dateLayout, b.Start.Date, time.Local); err != nil {
			return Event{}, fmt.Errorf("parse start date: %w", err)
		}
		if b.End.Date == "" {
			e.End = e.Start
		} else if e.End, err = time.ParseInLocation(dateLayout, b.End.Date, time.Local); err != nil {
			return Event{}, fmt.Errorf("parse end date: %w", err)
		}
		return e, nil
	}
	if e.Start, err = time.Parse(time.RFC3339, b.Start.DateTime); err != nil {
		return Event{}, fmt.Errorf("parse start: %w", err)
	}
	if b.End.DateTime == "" {
		e.End = e.Start
	} else if e.End, err = time.Parse(time.RFC3339, b.End.DateTime); err != nil {
		return Event{}, fmt.Errorf("parse end: %w", err)
	}
	return e, nil
}

// zoneName prefers the IANA name; time.Local has none, so fall back to the
// TZ environment name and finally the abbreviation.
func zoneName(loc *time.Location) string {
	if name := loc.String(); name != "Local" && name != "" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	name, _ := time.Now().In(loc).Zone()
	return name
}

// Offline is the adapter used when no calendar is configured. The planner
// and the timer work the same without it.
type Offline struct{}

func (Offline) ListUpcoming(context.Context, int) []Event { return nil }

func (Offline) CreateAllDayEvent(context.Context, string, time.Time) error { return ErrOffline }

func (Offline) CreateTimedEvent(_ context.Context, summary string, start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	return ErrOffline
}
