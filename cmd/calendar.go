package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/config"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Google Calendar access",
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize calendar access and store the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		oc, err := calendar.OAuthConfig(cfg.CredentialsPath())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Open this link in your browser and authorize access:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  "+calendar.AuthCodeURL(oc))
		fmt.Fprintln(out)
		fmt.Fprint(out, "Paste the authorization code: ")

		code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && code == "" {
			return fmt.Errorf("read authorization code: %w", err)
		}
		if err := calendar.SaveToken(cmd.Context(), oc, strings.TrimSpace(code), cfg.TokenPath()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Token saved to %s\n", cfg.TokenPath())
		if !cfg.Calendar.Enabled {
			fmt.Fprintln(out, "Set calendar.enabled: true in the config to sync from the TUI.")
		}
		return nil
	},
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		g, err := calendar.NewGoogle(cfg.CredentialsPath(), cfg.TokenPath(), cfg.Calendar.Timeout)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		events := g.ListUpcoming(cmd.Context(), cfg.Calendar.MaxResults)
		if len(events) == 0 {
			fmt.Fprintln(out, "No upcoming events found.")
			return nil
		}
		for _, e := range events {
			fmt.Fprintf(out, "  %-20s %s\n", e.When(), e.Summary)
		}
		return nil
	},
}

func init() {
	calendarCmd.AddCommand(calendarAuthCmd, calendarListCmd)
}
