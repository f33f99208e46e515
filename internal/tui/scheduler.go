package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/timesplit/internal/pomodoro"
)

// Scheduler runs timer callbacks inside Update. Schedule records the callback
// and queues a tea.Tick for it; the App drains the queue after each Update
// and fires the callback when the matching scheduledMsg arrives. A callback
// cancelled before its message arrives is dropped.
type Scheduler struct {
	next    uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[uint64]func())}
}

func (s *Scheduler) Schedule(d time.Duration, fn func()) pomodoro.CancelFunc {
	s.next++
	id := s.next
	s.pending[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return scheduledMsg{id: id}
	}))
	return func() { delete(s.pending, id) }
}

// Completed is the timer's OnComplete hook.
func (s *Scheduler) Completed(c pomodoro.Completion) {
	s.queued = append(s.queued, func() tea.Msg { return sessionDoneMsg{completion: c} })
}

func (s *Scheduler) fire(id uint64) {
	fn, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	fn()
}

func (s *Scheduler) drain() []tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return cmds
}

// Pending is the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int { return len(s.pending) }
