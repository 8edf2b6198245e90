// Package scheduler provides the timer port used by the chat session and the
// animation service, plus the implementations that back it: a simulated clock
// for tests and scripted runs, a wall-clock scheduler that hands callbacks to
// an owning goroutine, and a single-goroutine event loop for headless drivers.
package scheduler

import (
	"errors"
	"time"
)

// ErrStopped is returned when work is submitted to a loop that is no longer running.
var ErrStopped = errors.New("scheduler: loop stopped")

// Handle is a cancellable reference to a scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. It reports whether the
	// callback was still pending.
	Cancel() bool
}

// Scheduler schedules one-shot deferred tasks.
//
// Callbacks always run on the goroutine that owns the scheduler's consumer
// (the caller of Manual.Advance, the Loop goroutine, or whatever goroutine a
// Realtime dispatcher hands them to). They never run concurrently with each
// other.
type Scheduler interface {
	Now() time.Time
	ScheduleOnce(delay time.Duration, fn func()) Handle
}

// Dispatcher runs fn on the goroutine that owns the session state.
type Dispatcher func(fn func())

// Noop is a handle for work that was never scheduled.
var Noop Handle = noopHandle{}

type noopHandle struct{}

func (noopHandle) Cancel() bool { return false }
