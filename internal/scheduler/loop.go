package scheduler

import (
	"context"
	"sync"

	"chatsim/internal/logging"
)

// Loop is a single-goroutine event loop. Everything posted to it runs in
// order on the goroutine executing Run, so a session driven through a Loop
// never sees interleaved mutations.
type Loop struct {
	mu      sync.Mutex
	events  chan func()
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// NewLoop creates a loop with the given event buffer size.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		events: make(chan func(), buffer),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Run executes posted events until ctx is cancelled or Stop is called. It
// blocks, and returns ctx.Err() on cancellation or nil after Stop.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrStopped
	}
	l.running = true
	stopped := l.stopped
	l.mu.Unlock()

	defer close(l.doneCh)
	defer l.markStopped()
	if stopped {
		return nil
	}

	log := logging.Get(logging.CategoryScheduler)
	log.Debug("event loop started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("event loop context cancelled")
			return ctx.Err()
		case <-l.stopCh:
			log.Debug("event loop stopped")
			return nil
		case fn := <-l.events:
			fn()
		}
	}
}

// Post queues fn. It reports false if the loop has stopped, in which case fn
// will never run.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return false
	}

	select {
	case l.events <- fn:
		return true
	case <-l.stopCh:
		return false
	case <-l.doneCh:
		return false
	}
}

// Dispatch adapts the loop to a Dispatcher for Realtime.
func (l *Loop) Dispatch(fn func()) {
	l.Post(fn)
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-l.doneCh:
		// The loop may have drained fn right before exiting.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Stop ends Run and waits for it to return. Queued events that have not run
// are dropped. Stop is safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		running := l.running
		l.mu.Unlock()
		if running {
			<-l.doneCh
		}
		return
	}
	l.stopped = true
	running := l.running
	l.mu.Unlock()

	close(l.stopCh)
	if running {
		<-l.doneCh
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.doneCh
}

func (l *Loop) markStopped() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.stopCh)
	}
	l.mu.Unlock()
}
