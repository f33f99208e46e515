package pomodoro

import (
	"context"
	"sync"
	"time"
)

// CancelFunc cancels a scheduled callback. Calling it more than once, or
// after the callback ran, does nothing.
type CancelFunc func()

// Scheduler runs fn once after d on the caller's thread of control.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// Loop is a single-threaded event loop. Posted functions and scheduled
// callbacks all run on the goroutine that calls Run, so state owned by the
// loop needs no locking. Blocking work belongs on other goroutines, which
// hand results back with Post.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func NewLoop() *Loop {
	return &Loop{queue: make(chan func(), 64), done: make(chan struct{})}
}

// Post queues fn to run on the loop goroutine. It may be called from any
// goroutine. Once Run has returned, fn is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Schedule implements Scheduler. The returned CancelFunc must be called from
// the loop goroutine; a cancelled callback never runs even if its timer had
// already fired.
func (l *Loop) Schedule(d time.Duration, fn func()) CancelFunc {
	t := &loopTimer{fn: fn}
	t.timer = time.AfterFunc(d, func() {
		l.Post(t.fire)
	})
	return t.cancel
}

// Run processes queued functions until ctx is cancelled. A Loop runs once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

type loopTimer struct {
	once      sync.Once
	timer     *time.Timer
	fn        func()
	cancelled bool
}

func (t *loopTimer) fire() {
	if t.cancelled {
		return
	}
	t.once.Do(t.fn)
}

func (t *loopTimer) cancel() {
	t.cancelled = true
	t.timer.Stop()
}
