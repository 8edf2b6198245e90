package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// callbackMsg carries a scheduler callback into Update, which is the only
// goroutine allowed to touch the session.
type callbackMsg struct {
	fn func()
}

// Dispatcher routes scheduler.Realtime callbacks through a tea.Program.
// Callbacks dispatched before Attach are queued and delivered once the
// program is attached.
type Dispatcher struct {
	mu      sync.Mutex
	program *tea.Program
	queue   []func()
}

// NewDispatcher creates a detached dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach starts delivering callbacks to p.
func (d *Dispatcher) Attach(p *tea.Program) {
	d.mu.Lock()
	d.program = p
	queued := d.queue
	d.queue = nil
	d.mu.Unlock()

	if len(queued) == 0 {
		return
	}
	// Send blocks until the program is running; Attach is called before Run.
	go func() {
		for _, fn := range queued {
			p.Send(callbackMsg{fn: fn})
		}
	}()
}

// Dispatch has the scheduler.Dispatcher signature.
func (d *Dispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	p := d.program
	if p == nil {
		d.queue = append(d.queue, fn)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	p.Send(callbackMsg{fn: fn})
}

// Pending returns the number of callbacks waiting for Attach.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
