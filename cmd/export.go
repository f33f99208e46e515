package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/config"
	"github.com/sadopc/timesplit/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log",
	Long: `Examples:
	timesplit export                                  # CSV in the current directory
	timesplit export --format json --out sessions.json
	timesplit export --out week.yaml                  # format from the extension`,
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

		format := strings.ToLower(exportFormat)
		if format == "" {
			format = export.FormatFromPath(exportOut)
		}
		out := exportOut
		if out == "" {
			out = fmt.Sprintf("timesplit-export-%s.%s", time.Now().Format("2006-01-02"), format)
		}

		if err := export.Write(format, data.Logs, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(data.Logs), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "csv, json or yaml (default from --out, else csv)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file")
}
