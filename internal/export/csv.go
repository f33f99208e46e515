package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/timesplit/internal/store"
)

var csvHeader = []string{"Timestamp", "Mode", "Label", "Duration (s)", "Duration"}

func ToCSV(entries []store.SessionLogEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			e.Timestamp.Local().Format(time.RFC3339),
			string(e.Mode),
			e.Label,
			strconv.Itoa(e.DurationSec),
			formatDuration(e.DurationSec),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
