package store

import (
	"fmt"
	"sort"
	"strings"
)

// TaskStore holds the per-mode task lists of an AppData document.
type TaskStore struct {
	data *AppData
}

func NewTaskStore(data *AppData) *TaskStore {
	data.Normalize()
	return &TaskStore{data: data}
}

// IndexedTask is a task together with its position in the mode's list.
type IndexedTask struct {
	Index int
	Task
}

func (s *TaskStore) Add(mode Mode, t Task) error {
	if !mode.Valid() {
		return fmt.Errorf("add task: unknown mode %q: %w", mode, ErrInvalidInput)
	}
	t.Text = strings.TrimSpace(t.Text)
	if t.Text == "" {
		return fmt.Errorf("add task: empty text: %w", ErrInvalidInput)
	}
	if t.Deadline.IsZero() {
		return fmt.Errorf("add task %q: missing deadline: %w", t.Text, ErrInvalidInput)
	}
	s.data.Tasks[mode] = append(s.data.Tasks[mode], t)
	return nil
}

func (s *TaskStore) ToggleDone(mode Mode, index int) error {
	tasks := s.data.Tasks[mode]
	if index < 0 || index >= len(tasks) {
		return fmt.Errorf("toggle task %d in %s: %w", index, mode, ErrIndexOutOfRange)
	}
	tasks[index].Done = !tasks[index].Done
	return nil
}

func (s *TaskStore) Remove(mode Mode, index int) error {
	tasks := s.data.Tasks[mode]
	if index < 0 || index >= len(tasks) {
		return fmt.Errorf("remove task %d in %s: %w", index, mode, ErrIndexOutOfRange)
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:index]...)
	out = append(out, tasks[index+1:]...)
	s.data.Tasks[mode] = out
	return nil
}

// List returns a copy of the mode's tasks in insertion order.
func (s *TaskStore) List(mode Mode) []Task {
	return append([]Task(nil), s.data.Tasks[mode]...)
}

// ListSorted orders open tasks before done ones, then by priority rank.
// Ties keep insertion order. Each item carries its index in List so callers
// can toggle or remove the right task.
func (s *TaskStore) ListSorted(mode Mode) []IndexedTask {
	tasks := s.data.Tasks[mode]
	out := make([]IndexedTask, len(tasks))
	for i, t := range tasks {
		out[i] = IndexedTask{Index: i, Task: t}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Done != out[j].Done {
			return !out[i].Done
		}
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}
