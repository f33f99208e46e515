package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/timesplit/internal/store"
)

func sampleData() []store.SessionLogEntry {
	now := time.Now().UTC()
	return []store.SessionLogEntry{
		{Timestamp: now.Add(-2 * time.Hour), Label: "quarterly report", DurationSec: 3600, Mode: store.ModeWork},
		{Timestamp: now.Add(-time.Hour), Label: "calculus", DurationSec: 1500, Mode: store.ModeStudy},
		{Timestamp: now, Label: "Unlabeled Session", DurationSec: 61, Mode: store.ModeWork},
	}
}

// ============================================================
// CSV
// ============================================================

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[1] != "Work" {
		t.Fatalf("Mode = %q, want Work", row[1])
	}
	if row[2] != "quarterly report" {
		t.Fatalf("Label = %q, want quarterly report", row[2])
	}
	if row[3] != "3600" {
		t.Fatalf("Duration (s) = %q, want 3600", row[3])
	}
	if row[4] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[4])
	}
	if _, err := time.Parse(time.RFC3339, row[0]); err != nil {
		t.Fatalf("timestamp %q is not RFC3339", row[0])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	entries := []store.SessionLogEntry{
		{Timestamp: time.Now(), Label: `essay "draft", part 2`, DurationSec: 60, Mode: store.ModeStudy},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(entries, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][2] != `essay "draft", part 2` {
		t.Fatalf("label not preserved: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result document
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.TotalSec != 5161 {
		t.Fatalf("total_seconds = %d, want 5161", result.TotalSec)
	}
	e := result.Sessions[1]
	if e.Mode != "Study" || e.Label != "calculus" {
		t.Fatalf("session = %+v", e)
	}
	if e.Duration != "00:25:00" {
		t.Fatalf("Duration = %q, want 00:25:00", e.Duration)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result document
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Sessions != nil {
		t.Fatal("sessions should be nil/null for empty export")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// YAML
// ============================================================

func TestToYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")

	if err := ToYAML(sampleData(), path); err != nil {
		t.Fatalf("ToYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result document
	if err := yaml.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Count != 3 || len(result.Sessions) != 3 {
		t.Fatalf("count = %d, sessions = %d, want 3", result.Count, len(result.Sessions))
	}
	if result.Sessions[0].DurationSec != 3600 {
		t.Fatalf("duration_seconds = %d, want 3600", result.Sessions[0].DurationSec)
	}
	if !strings.Contains(string(data), "label: quarterly report") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}
}

func TestToYAMLBadPath(t *testing.T) {
	if err := ToYAML(nil, "/nonexistent/dir/file.yaml"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Write / FormatFromPath
// ============================================================

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, f := range Formats() {
		path := filepath.Join(dir, "out."+f)
		if err := Write(f, sampleData(), path); err != nil {
			t.Fatalf("Write(%s): %v", f, err)
		}
		if FormatFromPath(path) != f {
			t.Fatalf("FormatFromPath(%q) = %q, want %q", path, FormatFromPath(path), f)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write("xlsx", nil, filepath.Join(t.TempDir(), "out.xlsx"))
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"log.JSON": FormatJSON,
		"log.yml":  FormatYAML,
		"log.csv":  FormatCSV,
		"log":      FormatCSV,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
