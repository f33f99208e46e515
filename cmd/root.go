package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/calendar"
	"github.com/sadopc/timesplit/internal/config"
	"github.com/sadopc/timesplit/internal/notify"
	"github.com/sadopc/timesplit/internal/store"
	"github.com/sadopc/timesplit/internal/tui"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "timesplit",
	Short:        "Pomodoro timer, task planner and focus analytics",
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/timesplit/config.yaml)")
	rootCmd.AddCommand(summaryCmd, focusCmd, tasksCmd, exportCmd, calendarCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so log lines go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := tea.LogToFile(cfg.LogPath(), "timesplit")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	backend, data, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	app := tui.NewApp(data, tui.Options{
		Backend:             backend,
		Calendar:            openCalendar(cfg),
		Notifier:            notify.New(cfg.Reminder.Notify),
		DefaultFocusMinutes: cfg.Timer.DefaultFocusMinutes,
		HydrationMinutes:    cfg.Reminder.HydrationMinutes,
		MaxEvents:           cfg.Calendar.MaxResults,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if a, ok := final.(tui.App); ok && !a.Save() {
		return fmt.Errorf("could not save data to %s (see %s)", cfg.DataPath(), cfg.LogPath())
	}
	return nil
}

// openStore opens the configured backend and loads the document. A load
// failure is logged and yields the empty document.
func openStore(cfg config.Config) (store.Backend, *store.AppData, error) {
	backend, err := store.Open(cfg.Data.Backend, cfg.DataPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open data store: %w", err)
	}
	return backend, store.LoadOrDefault(backend), nil
}

// openCalendar returns the Google adapter when it is enabled and usable,
// otherwise the offline one.
func openCalendar(cfg config.Config) calendar.Adapter {
	if !cfg.Calendar.Enabled {
		return calendar.Offline{}
	}
	g, err := calendar.NewGoogle(cfg.CredentialsPath(), cfg.TokenPath(), cfg.Calendar.Timeout)
	if err != nil {
		log.Printf("calendar unavailable: %v", err)
		return calendar.Offline{}
	}
	return g
}
