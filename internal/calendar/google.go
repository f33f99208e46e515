package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	DefaultTimeout = 10 * time.Second
	primaryID      = "primary"
)

// Google talks to the user's primary Google Calendar.
type Google struct {
	svc     *gcal.Service
	timeout time.Duration
}

// OAuthConfig reads the OAuth client credentials downloaded from the Google
// Cloud console.
func OAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return cfg, nil
}

// NewGoogle builds an adapter from stored credentials and token. The token
// must already exist; see AuthCodeURL and SaveToken.
func NewGoogle(credentialsPath, tokenPath string, timeout time.Duration) (*Google, error) {
	cfg, err := OAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := loadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// The token source refreshes in the background of calls, so it gets a
	// context that outlives any single request.
	ts := cfg.TokenSource(context.Background(), tok)
	svc, err := gcal.NewService(context.Background(), option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("build calendar service: %w", err)
	}
	return &Google{svc: svc, timeout: timeout}, nil
}

func (g *Google) ListUpcoming(ctx context.Context, maxResults int) []Event {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.svc.Events.List(primaryID).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(int64(maxResults)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("calendar: list events: %v", err)
		return nil
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		e, err := fromAPI(item).Parse()
		if err != nil {
			log.Printf("calendar: skip event %q: %v", item.Summary, err)
			continue
		}
		events = append(events, e)
	}
	return events
}

func (g *Google) CreateAllDayEvent(ctx context.Context, summary string, date time.Time) error {
	return g.insert(ctx, AllDayBody(summary, date))
}

func (g *Google) CreateTimedEvent(ctx context.Context, summary string, start, end time.Time) error {
	body, err := TimedBody(summary, start, end)
	if err != nil {
		return err
	}
	return g.insert(ctx, body)
}

func (g *Google) insert(ctx context.Context, body EventBody) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	created, err := g.svc.Events.Insert(primaryID, toAPI(body)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create event %q: %w", body.Summary, err)
	}
	log.Printf("calendar: event created: %s", created.HtmlLink)
	return nil
}

func toAPI(b EventBody) *gcal.Event {
	conv := func(t EventTime) *gcal.EventDateTime {
		return &gcal.EventDateTime{Date: t.Date, DateTime: t.DateTime, TimeZone: t.TimeZone}
	}
	return &gcal.Event{Summary: b.Summary, Start: conv(b.Start), End: conv(b.End)}
}

func fromAPI(e *gcal.Event) EventBody {
	conv := func(t *gcal.EventDateTime) EventTime {
		if t == nil {
			return EventTime{}
		}
		return EventTime{Date: t.Date, DateTime: t.DateTime, TimeZone: t.TimeZone}
	}
	return EventBody{Summary: e.Summary, Start: conv(e.Start), End: conv(e.End)}
}

// AuthCodeURL returns the consent page the user must visit to authorize
// calendar access.
func AuthCodeURL(cfg *oauth2.Config) string {
	return cfg.AuthCodeURL("timesplit", oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code and stores the token at path.
func SaveToken(ctx context.Context, cfg *oauth2.Config, code, path string) error {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read token (run `timesplit calendar auth`): %w", err)
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return tok, nil
}
