package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/config"
	"github.com/sadopc/timesplit/internal/store"
)

var (
	tasksMode     string
	taskDeadline  string
	taskPriority  string
	taskSyncEvent bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the Work and Study task lists",
	Long: `Examples:
	timesplit tasks list --mode study
	timesplit tasks add "Write report" --deadline 2026-11-02 --priority High
	timesplit tasks done 1
	timesplit tasks rm 2 --mode study

Task numbers are the ones shown by "tasks list".`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, open ones first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTasks(func(st *app.State) (bool, error) {
			writeTasks(cmd.OutOrStdout(), st.Mode(), st.Tasks.ListSorted(st.Mode()))
			return false, nil
		})
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deadline := store.DateOf(time.Now())
		if taskDeadline != "" {
			d, err := store.ParseDate(taskDeadline)
			if err != nil {
				return err
			}
			deadline = d
		}
		priority, err := parsePriority(taskPriority)
		if err != nil {
			return err
		}
		task := store.Task{Text: strings.Join(args, " "), Deadline: deadline, Priority: priority}

		return withTasks(func(st *app.State) (bool, error) {
			before := len(st.Tasks.List(st.Mode()))
			err := st.AddTask(cmd.Context(), task, taskSyncEvent)
			// A failed calendar sync still leaves the task in the list.
			added := len(st.Tasks.List(st.Mode())) > before
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s tasks (due %s).\n", strings.TrimSpace(task.Text), st.Mode(), deadline)
			}
			return added, err
		})
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done [number]",
	Short: "Mark a task done, or open again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTasks(func(st *app.State) (bool, error) {
			t, err := pickTask(st, args[0])
			if err != nil {
				return false, err
			}
			if err := st.Tasks.ToggleDone(st.Mode(), t.Index); err != nil {
				return false, err
			}
			state := "done"
			if t.Done {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q %s.\n", t.Text, state)
			return true, nil
		})
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm [number]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTasks(func(st *app.State) (bool, error) {
			t, err := pickTask(st, args[0])
			if err != nil {
				return false, err
			}
			if err := st.Tasks.Remove(st.Mode(), t.Index); err != nil {
				return false, err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", t.Text)
			return true, nil
		})
	},
}

// withTasks loads the document, runs fn on the selected mode and saves when
// fn reports a change.
func withTasks(fn func(st *app.State) (bool, error)) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mode, err := store.ParseMode(tasksMode)
	if err != nil {
		return err
	}
	backend, data, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	st := app.New(data, app.Options{Calendar: openCalendar(cfg)})
	if err := st.SetMode(mode); err != nil {
		return err
	}
	changed, ferr := fn(st)
	if changed && !st.Save(backend) {
		return fmt.Errorf("could not save data to %s", cfg.DataPath())
	}
	return ferr
}

// pickTask resolves a 1-based number from the sorted listing.
func pickTask(st *app.State, arg string) (store.IndexedTask, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return store.IndexedTask{}, fmt.Errorf("task number %q: %w", arg, store.ErrInvalidInput)
	}
	tasks := st.Tasks.ListSorted(st.Mode())
	if n < 1 || n > len(tasks) {
		return store.IndexedTask{}, fmt.Errorf("task %d of %d: %w", n, len(tasks), store.ErrIndexOutOfRange)
	}
	return tasks[n-1], nil
}

func parsePriority(s string) (store.Priority, error) {
	for _, p := range store.Priorities() {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("priority %q (want Low, Medium or High): %w", s, store.ErrInvalidInput)
}

func writeTasks(w io.Writer, mode store.Mode, tasks []store.IndexedTask) {
	if len(tasks) == 0 {
		fmt.Fprintf(w, "No %s tasks.\n", mode)
		return
	}
	fmt.Fprintf(w, "%s tasks:\n", mode)
	for i, t := range tasks {
		check := "[ ]"
		if t.Done {
			check = "[x]"
		}
		fmt.Fprintf(w, "%3d. %s %-40s %-6s due %s\n", i+1, check, t.Text, t.Priority, t.Deadline)
	}
}

func init() {
	tasksCmd.PersistentFlags().StringVarP(&tasksMode, "mode", "m", string(store.ModeWork), "Work or Study")
	tasksAddCmd.Flags().StringVarP(&taskDeadline, "deadline", "d", "", "Deadline as YYYY-MM-DD (default today)")
	tasksAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", string(store.PriorityMedium), "Low, Medium or High")
	tasksAddCmd.Flags().BoolVar(&taskSyncEvent, "sync", false, "Also create an all-day calendar event")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksDoneCmd, tasksRmCmd)
}
