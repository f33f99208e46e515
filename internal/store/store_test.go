package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(n int) *int { return &n }

func sampleDoc() *AppData {
	d := NewAppData()
	d.Tasks[ModeWork] = []Task{
		{Text: "write report", Deadline: Date{2026, time.October, 20}, Priority: PriorityHigh},
		{Text: "email team", Deadline: Date{2026, time.October, 21}, Priority: PriorityLow, Done: true},
	}
	d.Tasks[ModeStudy] = []Task{
		{Text: "read chapter 4", Deadline: Date{2026, time.November, 1}, Priority: PriorityMedium},
	}
	d.Logs = []SessionLogEntry{
		{Timestamp: time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC), Label: "report", DurationSec: 1500, Mode: ModeWork},
		{Timestamp: time.Date(2026, 10, 13, 18, 0, 0, 123000, time.UTC), Label: "algebra", DurationSec: 3000, Mode: ModeStudy},
	}
	d.CustomFocusMinutes = intPtr(50)
	return d
}

func assertDocEqual(t *testing.T, got, want *AppData) {
	t.Helper()
	for _, m := range Modes() {
		g, w := got.Tasks[m], want.Tasks[m]
		if len(g) != len(w) {
			t.Fatalf("%s: expected %d tasks, got %d", m, len(w), len(g))
		}
		for i := range w {
			if g[i] != w[i] {
				t.Fatalf("%s task %d: got %+v, want %+v", m, i, g[i], w[i])
			}
		}
	}
	if len(got.Logs) != len(want.Logs) {
		t.Fatalf("expected %d logs, got %d", len(want.Logs), len(got.Logs))
	}
	for i := range want.Logs {
		g, w := got.Logs[i], want.Logs[i]
		if !g.Timestamp.Equal(w.Timestamp) || g.Label != w.Label || g.DurationSec != w.DurationSec || g.Mode != w.Mode {
			t.Fatalf("log %d: got %+v, want %+v", i, g, w)
		}
	}
	switch {
	case got.CustomFocusMinutes == nil && want.CustomFocusMinutes == nil:
	case got.CustomFocusMinutes == nil || want.CustomFocusMinutes == nil:
		t.Fatalf("custom minutes: got %v, want %v", got.CustomFocusMinutes, want.CustomFocusMinutes)
	case *got.CustomFocusMinutes != *want.CustomFocusMinutes:
		t.Fatalf("custom minutes: got %d, want %d", *got.CustomFocusMinutes, *want.CustomFocusMinutes)
	}
}

// ============================================================
// JSON file backend
// ============================================================

func TestJSONLoadMissingFile(t *testing.T) {
	j := NewJSONFile(filepath.Join(t.TempDir(), "nope.json"))
	d, err := j.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if d.Tasks[ModeWork] == nil || d.Tasks[ModeStudy] == nil {
		t.Fatal("default document must have both mode lists")
	}
	if len(d.Logs) != 0 || d.CustomFocusMinutes != nil {
		t.Fatalf("default document should be empty: %+v", d)
	}
}

func TestJSONLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0o644)

	d, err := NewJSONFile(path).Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if d == nil || len(d.Tasks) != 2 {
		t.Fatal("malformed file should still yield the default document")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	j := NewJSONFile(filepath.Join(t.TempDir(), "sub", "app_data.json"))
	want := sampleDoc()
	if err := j.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := j.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, got, sampleDoc())
}

func TestJSONRoundTripEmpty(t *testing.T) {
	j := NewJSONFile(filepath.Join(t.TempDir(), "app_data.json"))
	if err := j.Save(NewAppData()); err != nil {
		t.Fatal(err)
	}
	got, err := j.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, got, NewAppData())
}

func TestJSONRoundTripZeroDeadline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_data.json")
	j := NewJSONFile(path)
	want := sampleDoc()
	want.Tasks[ModeWork] = append(want.Tasks[ModeWork], Task{Text: "no deadline", Priority: PriorityLow})

	if err := j.Save(want); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"deadline": ""`) {
		t.Fatalf("zero deadline not written as empty string:\n%s", raw)
	}

	got, err := j.Load()
	if err != nil {
		t.Fatalf("document with a zero deadline must load: %v", err)
	}
	assertDocEqual(t, got, want)
	if len(got.Logs) != 2 {
		t.Fatalf("expected logs to survive, got %d", len(got.Logs))
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := d.UnmarshalJSON([]byte(`""`)); err != nil || !d.IsZero() {
		t.Fatalf("empty string: got %v, %v", d, err)
	}
	b, err := Date{}.MarshalJSON()
	if err != nil || string(b) != `""` {
		t.Fatalf("zero date marshalled as %s, %v", b, err)
	}
	b, _ = Date{2026, time.March, 4}.MarshalJSON()
	if string(b) != `"2026-03-04"` {
		t.Fatalf("got %s", b)
	}
	if err := d.UnmarshalJSON([]byte(`"-0001-11-30"`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJSONFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_data.json")
	if err := NewJSONFile(path).Save(sampleDoc()); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	for _, want := range []string{`"tasks"`, `"Work"`, `"Study"`, `"logs_df"`, `"duration_sec"`,
		`"custom_pomodoro_minutes": 50`, `"deadline": "2026-10-20"`, "\n    "} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("saved document missing %q:\n%s", want, raw)
		}
	}
}

func TestJSONLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_data.json")
	legacy := `{
	"tasks": {"Work": [{"text": "a", "deadline": "2025-03-01", "priority": "High", "done": false}]},
	"logs": {},
	"logs_df": [{"timestamp": "2025-03-01T10:15:30.123456", "label": "x", "duration_sec": 1500, "mode": "Work"}],
	"custom_pomodoro_minutes": 0
}`
	os.WriteFile(path, []byte(legacy), 0o644)

	d, err := NewJSONFile(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Tasks[ModeStudy]) != 0 || d.Tasks[ModeStudy] == nil {
		t.Fatal("missing Study list should be created empty")
	}
	if d.CustomFocusMinutes != nil {
		t.Fatal("non-positive custom minutes should be dropped")
	}
	want := time.Date(2025, 3, 1, 10, 15, 30, 123456000, time.Local)
	if !d.Logs[0].Timestamp.Equal(want) {
		t.Fatalf("legacy timestamp: got %v, want %v", d.Logs[0].Timestamp, want)
	}
}

func TestJSONSaveToUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	os.WriteFile(blocker, nil, 0o644)

	err := NewJSONFile(filepath.Join(blocker, "app_data.json")).Save(NewAppData())
	if err == nil {
		t.Fatal("expected save error when parent is a file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("[]"), 0o644)

	d := LoadOrDefault(NewJSONFile(path))
	if d == nil || len(d.Tasks) != 2 {
		t.Fatal("expected default document")
	}
}

// ============================================================
// SQLite backend
// ============================================================

func TestNewMemory(t *testing.T) {
	s := newTestSQLite(t)

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "timesplit.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: must not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := newTestSQLite(t)
	d, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, d, NewAppData())
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	if err := s.Save(sampleDoc()); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertDocEqual(t, got, sampleDoc())
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	s := newTestSQLite(t)
	s.Save(sampleDoc())

	smaller := NewAppData()
	smaller.Tasks[ModeWork] = []Task{{Text: "only", Priority: PriorityLow}}
	if err := s.Save(smaller); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load()
	assertDocEqual(t, got, smaller)
}

func TestSQLiteCustomMinutesCleared(t *testing.T) {
	s := newTestSQLite(t)
	s.Save(sampleDoc())

	d := sampleDoc()
	d.CustomFocusMinutes = nil
	s.Save(d)

	if _, err := s.GetSetting(settingCustomFocus); err == nil {
		t.Fatal("setting should be deleted")
	}
	got, _ := s.Load()
	if got.CustomFocusMinutes != nil {
		t.Fatal("custom minutes should be unset")
	}
}

// ============================================================
// Backend selection
// ============================================================

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(BackendJSON, filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*JSONFile); !ok {
		t.Fatalf("expected *JSONFile, got %T", b)
	}

	b, err = Open(BackendSQLite, filepath.Join(dir, "a.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if _, ok := b.(*SQLite); !ok {
		t.Fatalf("expected *SQLite, got %T", b)
	}

	if _, err := Open("csv", "x"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestParseModeAndDate(t *testing.T) {
	if m, err := ParseMode(" study "); err != nil || m != ModeStudy {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if _, err := ParseMode("play"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	d, err := ParseDate("2026-02-28")
	if err != nil || d != (Date{2026, time.February, 28}) {
		t.Fatalf("ParseDate: %v %v", d, err)
	}
	if _, err := ParseDate("28/02/2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
