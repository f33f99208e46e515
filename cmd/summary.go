package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/analytics"
	"github.com/sadopc/timesplit/internal/config"
	"github.com/sadopc/timesplit/internal/store"
)

// summaryCmd prints the analytics dashboard as plain text.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show focus time per mode and label",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		backend, data, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		writeSummary(cmd.OutOrStdout(), analytics.Summarize(data.Logs, time.Now()))
		return nil
	},
}

func writeSummary(w io.Writer, s analytics.Summary) {
	if !s.HasData {
		fmt.Fprintln(w, "No data to display.")
		return
	}
	fmt.Fprintf(w, "%d sessions, %s total\n\n", s.Sessions, analytics.FormatDuration(s.TotalSeconds))
	for _, m := range store.Modes() {
		fmt.Fprintf(w, "  %-10s %8s %6.1f%%\n", m, analytics.FormatDuration(s.ByMode[m]), s.ModeShare(m))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-30s %10s\n", "Label", "Minutes")
	for _, lt := range s.ByLabel {
		fmt.Fprintf(w, "  %-30s %10.1f\n", lt.Label, lt.Minutes)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Suggestion)
}
