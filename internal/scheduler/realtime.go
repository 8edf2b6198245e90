package scheduler

import (
	"sync/atomic"
	"time"
)

const (
	statePending int32 = iota
	stateFired
	stateCancelled
)

// Realtime schedules callbacks on the wall clock. Timers fire on runtime
// goroutines, so every callback is handed to the dispatcher, which must run it
// on the goroutine that owns the state the callback touches.
type Realtime struct {
	dispatch Dispatcher
	now      func() time.Time
}

// NewRealtime creates a wall-clock scheduler that delivers callbacks through dispatch.
func NewRealtime(dispatch Dispatcher) *Realtime {
	return &Realtime{
		dispatch: dispatch,
		now:      time.Now,
	}
}

// Now returns the wall-clock time.
func (r *Realtime) Now() time.Time {
	return r.now()
}

// ScheduleOnce runs fn through the dispatcher after delay. A cancelled handle
// never runs fn, even when the timer already fired and the dispatch is queued.
func (r *Realtime) ScheduleOnce(delay time.Duration, fn func()) Handle {
	h := &realtimeHandle{}
	h.timer = time.AfterFunc(delay, func() {
		r.dispatch(func() {
			if h.state.CompareAndSwap(statePending, stateFired) {
				fn()
			}
		})
	})
	return h
}

type realtimeHandle struct {
	state atomic.Int32
	timer *time.Timer
}

func (h *realtimeHandle) Cancel() bool {
	if !h.state.CompareAndSwap(statePending, stateCancelled) {
		return false
	}
	h.timer.Stop()
	return true
}
