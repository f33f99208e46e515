package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode is the top-level context (Work or Study) that scopes tasks and theme.
type Mode string

const (
	ModeWork  Mode = "Work"
	ModeStudy Mode = "Study"
)

// Modes returns every mode in display order.
func Modes() []Mode { return []Mode{ModeWork, ModeStudy} }

func (m Mode) Valid() bool {
	return m == ModeWork || m == ModeStudy
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work":
		return ModeWork, nil
	case "study":
		return ModeStudy, nil
	}
	return "", fmt.Errorf("parse mode %q: %w", s, ErrInvalidInput)
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities returns the priorities in the order the planner offers them.
func Priorities() []Priority { return []Priority{PriorityLow, PriorityMedium, PriorityHigh} }

// Rank orders priorities for sorting: High=1, Medium=2, anything else 3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	}
	return 3
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, serialized as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrInvalidInput)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.In(time.UTC).Format(dateLayout)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) IsZero() bool { return d == Date{} }

// MarshalJSON writes the zero Date as "" so it reads back as the zero Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Task struct {
	Text     string   `json:"text"`
	Deadline Date     `json:"deadline"`
	Priority Priority `json:"priority"`
	Done     bool     `json:"done"`
}

// SessionLogEntry records one completed focus session. Entries are never
// modified after they are appended.
type SessionLogEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Label       string    `json:"label"`
	DurationSec int       `json:"duration_sec"`
	Mode        Mode      `json:"mode"`
}

// AppData is the root persisted document.
type AppData struct {
	Tasks              map[Mode][]Task   `json:"tasks"`
	Logs               []SessionLogEntry `json:"logs_df"`
	CustomFocusMinutes *int              `json:"custom_pomodoro_minutes,omitempty"`
}

// NewAppData returns the empty first-run document.
func NewAppData() *AppData {
	d := &AppData{}
	d.Normalize()
	return d
}

// Normalize restores the document invariants after a load: both modes have
// a task list, logs is non-nil and a non-positive custom duration is dropped.
func (d *AppData) Normalize() {
	if d.Tasks == nil {
		d.Tasks = make(map[Mode][]Task, 2)
	}
	for _, m := range Modes() {
		if d.Tasks[m] == nil {
			d.Tasks[m] = []Task{}
		}
	}
	if d.Logs == nil {
		d.Logs = []SessionLogEntry{}
	}
	if d.CustomFocusMinutes != nil && *d.CustomFocusMinutes <= 0 {
		d.CustomFocusMinutes = nil
	}
}

// FocusMinutes returns the custom focus duration, or fallback when unset.
func (d *AppData) FocusMinutes(fallback int) int {
	if d.CustomFocusMinutes != nil {
		return *d.CustomFocusMinutes
	}
	return fallback
}

// legacyTimestampLayout matches timestamps written without a zone offset,
// which are read as local time.
const legacyTimestampLayout = "2006-01-02T15:04:05.999999999"

func (e *SessionLogEntry) UnmarshalJSON(b []byte) error {
	type alias SessionLogEntry
	var raw struct {
		alias
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, raw.Timestamp)
	if err != nil {
		ts, err = time.ParseInLocation(legacyTimestampLayout, raw.Timestamp, time.Local)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", raw.Timestamp, err)
		}
	}
	*e = SessionLogEntry(raw.alias)
	e.Timestamp = ts
	return nil
}
