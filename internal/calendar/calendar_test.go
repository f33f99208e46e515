package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestAllDayBody(t *testing.T) {
	is := is.New(t)
	b := AllDayBody("[Work] ship", time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(b)
	is.NoErr(err)
	is.Equal(string(raw), `{"summary":"[Work] ship","start":{"date":"2026-10-20"},"end":{"date":"2026-10-20"}}`)
}

func TestTimedBody(t *testing.T) {
	is := is.New(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, loc)

	b, err := TimedBody("standup", start, start.Add(15*time.Minute))
	is.NoErr(err)
	is.Equal(b.Start.DateTime, "2026-10-20T09:00:00+02:00")
	is.Equal(b.End.DateTime, "2026-10-20T09:15:00+02:00")
	is.Equal(b.Start.TimeZone, "Europe/Berlin")
	is.Equal(b.Start.Date, "")
}

func TestTimedBodyRejectsBadRange(t *testing.T) {
	is := is.New(t)
	start := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

	_, err := TimedBody("x", start, start)
	is.True(errors.Is(err, ErrInvalidRange))
	_, err = TimedBody("x", start, start.Add(-time.Minute))
	is.True(errors.Is(err, ErrInvalidRange))
}

func TestParseBody(t *testing.T) {
	is := is.New(t)

	allDay, err := EventBody{Summary: "holiday", Start: EventTime{Date: "2026-12-25"}, End: EventTime{Date: "2026-12-26"}}.Parse()
	is.NoErr(err)
	is.True(allDay.AllDay)
	is.Equal(allDay.Start.Day(), 25)
	is.Equal(allDay.When(), "Dec 25, All-day")

	timed, err := EventBody{Summary: "call", Start: EventTime{DateTime: "2026-10-20T14:30:00Z"}}.Parse()
	is.NoErr(err)
	is.True(!timed.AllDay)
	is.True(timed.End.Equal(timed.Start))
	is.Equal(timed.When(), "Oct 20, 02:30 PM")

	_, err = EventBody{Start: EventTime{Date: "tomorrow"}}.Parse()
	is.True(err != nil)
}

func TestWireRoundTrip(t *testing.T) {
	is := is.New(t)
	body := AllDayBody("exam", time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local))
	is.Equal(fromAPI(toAPI(body)), body)
}

func TestOffline(t *testing.T) {
	is := is.New(t)
	var a Adapter = Offline{}
	ctx := context.Background()
	now := time.Now()

	is.Equal(len(a.ListUpcoming(ctx, 15)), 0)
	is.True(errors.Is(a.CreateAllDayEvent(ctx, "x", now), ErrOffline))
	is.True(errors.Is(a.CreateTimedEvent(ctx, "x", now, now.Add(time.Hour)), ErrOffline))
	is.True(errors.Is(a.CreateTimedEvent(ctx, "x", now, now), ErrInvalidRange))
}

func TestNewGoogleMissingFiles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	_, err := NewGoogle(filepath.Join(dir, "credentials.json"), filepath.Join(dir, "token.json"), 0)
	is.True(errors.Is(err, os.ErrNotExist))
}

func TestLoadTokenMalformed(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "token.json")
	is.NoErr(os.WriteFile(path, []byte("nope"), 0o600))

	_, err := loadToken(path)
	is.True(err != nil)
}
