package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timesplit/internal/store"
)

type document struct {
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Count      int      `json:"count" yaml:"count"`
	TotalSec   int      `json:"total_seconds" yaml:"total_seconds"`
	Sessions   []record `json:"sessions" yaml:"sessions"`
}

type record struct {
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	Mode        string `json:"mode" yaml:"mode"`
	Label       string `json:"label" yaml:"label"`
	DurationSec int    `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

func newDocument(entries []store.SessionLogEntry) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}
	for _, e := range entries {
		doc.TotalSec += e.DurationSec
		doc.Sessions = append(doc.Sessions, record{
			Timestamp:   e.Timestamp.Local().Format(time.RFC3339),
			Mode:        string(e.Mode),
			Label:       e.Label,
			DurationSec: e.DurationSec,
			Duration:    formatDuration(e.DurationSec),
		})
	}
	return doc
}

func ToJSON(entries []store.SessionLogEntry, path string) error {
	data, err := json.MarshalIndent(newDocument(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
