// Package analytics derives per-mode, per-label and week-over-week figures
// from the session log. Everything here is a pure function of its inputs.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/timesplit/internal/store"
)

// TotalsByMode sums focused seconds per mode. The bool is false when the log
// is empty, so callers can show "no data" rather than a zero-filled chart.
func TotalsByMode(log []store.SessionLogEntry) (map[store.Mode]int, bool) {
	if len(log) == 0 {
		return nil, false
	}
	totals := make(map[store.Mode]int)
	for _, e := range log {
		totals[e.Mode] += e.DurationSec
	}
	return totals, true
}

type LabelTotal struct {
	Label   string
	Minutes float64
}

// TotalsByLabel sums focused time per session label, in fractional minutes,
// ordered by label.
func TotalsByLabel(log []store.SessionLogEntry) []LabelTotal {
	secs := make(map[string]int)
	for _, e := range log {
		secs[e.Label] += e.DurationSec
	}
	out := make([]LabelTotal, 0, len(secs))
	for label, s := range secs {
		out = append(out, LabelTotal{Label: label, Minutes: float64(s) / 60})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

type DeltaStatus int

const (
	InsufficientData DeltaStatus = iota
	Decrease
	NoDecrease
)

func (s DeltaStatus) String() string {
	switch s {
	case InsufficientData:
		return "insufficient data"
	case Decrease:
		return "decrease"
	case NoDecrease:
		return "no decrease"
	default:
		return fmt.Sprintf("DeltaStatus(%d)", int(s))
	}
}

// Delta compares Study time this week with last week. Percent is only set
// when Status is Decrease.
type Delta struct {
	ThisWeek int
	LastWeek int
	Percent  float64
	Status   DeltaStatus
}

// WeekStart returns now moved back to Monday. The time of day is kept, so a
// week runs from Monday at the current clock time.
func WeekStart(now time.Time) time.Time {
	// time.Weekday has Sunday = 0.
	offset := (int(now.Weekday()) + 6) % 7
	return now.AddDate(0, 0, -offset)
}

// WeekOverWeekStudyDelta sums Study seconds in [start of this week, now) and
// in the seven days before that.
func WeekOverWeekStudyDelta(log []store.SessionLogEntry, now time.Time) Delta {
	thisStart := WeekStart(now)
	lastStart := thisStart.AddDate(0, 0, -7)

	var d Delta
	for _, e := range log {
		if e.Mode != store.ModeStudy {
			continue
		}
		ts := e.Timestamp
		switch {
		case !ts.Before(thisStart) && ts.Before(now):
			d.ThisWeek += e.DurationSec
		case !ts.Before(lastStart) && ts.Before(thisStart):
			d.LastWeek += e.DurationSec
		}
	}

	switch {
	case d.LastWeek == 0:
		d.Status = InsufficientData
	case d.ThisWeek < d.LastWeek:
		d.Status = Decrease
		d.Percent = (1 - float64(d.ThisWeek)/float64(d.LastWeek)) * 100
	default:
		d.Status = NoDecrease
	}
	return d
}

const defaultSuggestion = "Keep up the great work logging your sessions!"

// Suggestion is the one-line nudge shown under the charts.
func (d Delta) Suggestion() string {
	if d.Status == Decrease {
		return fmt.Sprintf("Suggestion: You studied %.0f%% less than last week. Want to review?", d.Percent)
	}
	return defaultSuggestion
}

// Summary bundles every figure the dashboard and the summary command show.
type Summary struct {
	HasData      bool
	Sessions     int
	TotalSeconds int
	ByMode       map[store.Mode]int
	ByLabel      []LabelTotal
	Study        Delta
	Suggestion   string
}

func Summarize(log []store.SessionLogEntry, now time.Time) Summary {
	byMode, ok := TotalsByMode(log)
	s := Summary{
		HasData:  ok,
		Sessions: len(log),
		ByMode:   byMode,
		ByLabel:  TotalsByLabel(log),
		Study:    WeekOverWeekStudyDelta(log, now),
	}
	for _, secs := range byMode {
		s.TotalSeconds += secs
	}
	s.Suggestion = s.Study.Suggestion()
	return s
}

// ModeShare is m's fraction of all logged time, in percent.
func (s Summary) ModeShare(m store.Mode) float64 {
	if s.TotalSeconds == 0 {
		return 0
	}
	return float64(s.ByMode[m]) / float64(s.TotalSeconds) * 100
}

// FormatDuration renders seconds the way the dashboard and exports do,
// e.g. "1h 05m" or "25m".
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
