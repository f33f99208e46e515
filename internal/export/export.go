// Package export writes the session log to CSV, JSON or YAML files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sadopc/timesplit/internal/store"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func Formats() []string { return []string{FormatCSV, FormatJSON, FormatYAML} }

// FormatFromPath guesses the format from the file extension, defaulting to
// CSV.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Write exports entries to path in the given format.
func Write(format string, entries []store.SessionLogEntry, path string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ToCSV(entries, path)
	case FormatJSON:
		return ToJSON(entries, path)
	case FormatYAML, "yml":
		return ToYAML(entries, path)
	default:
		return fmt.Errorf("export format %q: %w", format, store.ErrInvalidInput)
	}
}
