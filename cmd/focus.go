package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/config"
	"github.com/sadopc/timesplit/internal/notify"
	"github.com/sadopc/timesplit/internal/pomodoro"
	"github.com/sadopc/timesplit/internal/store"
)

const progressEvery = time.Second

var (
	focusLabel   string
	focusMode    string
	focusMinutes int
)

// focusCmd runs one focus session without the TUI and logs it on completion.
// Interrupting it discards the session.
var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a single focus session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		mode, err := store.ParseMode(focusMode)
		if err != nil {
			return err
		}
		backend, data, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		out := cmd.OutOrStdout()
		loop := pomodoro.NewLoop()
		n := notify.New(cfg.Reminder.Notify)

		var done pomodoro.Completion
		st := app.New(data, app.Options{
			DefaultFocusMinutes: cfg.Timer.DefaultFocusMinutes,
			Scheduler:           loop,
			OnComplete: func(c pomodoro.Completion) {
				done = c
				cancel()
			},
		})
		if err := st.SetMode(mode); err != nil {
			return err
		}
		st.SetLabel(focusLabel)
		if focusMinutes > 0 {
			// Applies to this run only; the stored preference is untouched.
			if err := st.Timer.SetCustomFocusDuration(focusMinutes); err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "%s %s focus for %d min. Ctrl+C to abandon.\n", st.Theme().Icon, mode, st.Timer.FocusMinutes())
		loop.Post(st.Timer.Start)
		loop.Post(func() { printClock(out, st.Timer) })
		var progress func()
		progress = func() {
			if st.Timer.Running() {
				printClock(out, st.Timer)
				loop.Schedule(progressEvery, progress)
			}
		}
		loop.Schedule(progressEvery, progress)

		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintln(out)

		if done.Entry == nil {
			fmt.Fprintln(out, "Session abandoned; nothing logged.")
			return nil
		}
		notify.SessionComplete(n, done)
		if !st.Save(backend) {
			return fmt.Errorf("could not save data to %s", cfg.DataPath())
		}
		fmt.Fprintf(out, "Logged %q (%s, %s).\n", done.Entry.Label, done.Entry.Mode, pomodoro.FormatClock(done.Entry.DurationSec))
		return nil
	},
}

func printClock(w io.Writer, t *pomodoro.Timer) {
	fmt.Fprintf(w, "\r%s %s ", t.SessionType(), pomodoro.FormatClock(t.TimeLeft()))
}

func init() {
	focusCmd.Flags().StringVarP(&focusLabel, "label", "l", "", "Session label")
	focusCmd.Flags().StringVarP(&focusMode, "mode", "m", string(store.ModeWork), "Work or Study")
	focusCmd.Flags().IntVar(&focusMinutes, "minutes", 0, "Focus length in minutes (default from settings)")
}
