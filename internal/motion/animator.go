// Package motion animates scalar values over a scheduler.Scheduler. Runs are
// sequences of timing and delay steps; every frame is a scheduled task, so a
// simulated clock drives animations deterministically.
package motion

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"chatsim/internal/logging"
	"chatsim/internal/scheduler"
)

// DefaultFrameInterval is roughly one frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// ErrZeroDurationLoop is returned by StartLoop for steps that take no time.
var ErrZeroDurationLoop = errors.New("motion: loop steps have zero total duration")

// Step is one segment of an animation. A step with To set animates the value
// from wherever it is when the step starts; a step without To just waits.
type Step struct {
	Duration time.Duration
	To       *float64
	Easing   Easing
}

// To animates towards v over d.
func To(v float64, d time.Duration, e Easing) Step {
	return Step{Duration: d, To: &v, Easing: e}
}

// Delay waits for d.
func Delay(d time.Duration) Step {
	return Step{Duration: d}
}

// Option configures an Animator.
type Option func(*Animator)

// WithFrameInterval sets the interval between frames of a timing step.
func WithFrameInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.frame = d
		}
	}
}

// WithFrameHook registers fn to be called after every value change.
func WithFrameHook(fn func()) Option {
	return func(a *Animator) {
		a.onFrame = fn
	}
}

// Animator runs step sequences on a scheduler.
type Animator struct {
	sched   scheduler.Scheduler
	frame   time.Duration
	onFrame func()
}

// NewAnimator creates an animator driven by sched.
func NewAnimator(sched scheduler.Scheduler, opts ...Option) *Animator {
	a := &Animator{
		sched: sched,
		frame: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunOnce runs steps once and calls done if they complete. Cancelling the
// returned handle leaves the value where it is and done is never called.
func (a *Animator) RunOnce(v *Value, steps []Step, done func()) scheduler.Handle {
	r := &run{a: a, v: v, steps: steps, done: done}
	r.begin()
	return r
}

// StartLoop repeats steps until the returned handle is cancelled.
func (a *Animator) StartLoop(v *Value, steps []Step) (scheduler.Handle, error) {
	var total time.Duration
	for _, s := range steps {
		total += s.Duration
	}
	if total <= 0 {
		logging.Get(logging.CategoryMotion).Debug("rejected loop", zap.Int("steps", len(steps)))
		return scheduler.Noop, ErrZeroDurationLoop
	}
	r := &run{a: a, v: v, steps: steps, loop: true}
	r.begin()
	return r, nil
}

// run is one animation in flight. It is also its own cancellation handle.
type run struct {
	a     *Animator
	v     *Value
	steps []Step
	loop  bool
	done  func()

	idx     int
	from    float64
	elapsed time.Duration
	pending scheduler.Handle
	over    bool
}

func (r *run) Cancel() bool {
	if r.over {
		return false
	}
	r.over = true
	if r.pending != nil {
		r.pending.Cancel()
		r.pending = nil
	}
	return true
}

// begin starts step idx, skipping zero-length steps and wrapping for loops.
func (r *run) begin() {
	for {
		if r.over {
			return
		}
		if r.idx >= len(r.steps) {
			if !r.loop {
				r.over = true
				r.pending = nil
				if r.done != nil {
					r.done()
				}
				return
			}
			r.idx = 0
		}

		s := r.steps[r.idx]
		r.from = r.v.Get()
		r.elapsed = 0
		if s.Duration > 0 {
			r.schedule()
			return
		}
		if s.To != nil {
			r.set(*s.To)
		}
		r.idx++
	}
}

func (r *run) schedule() {
	s := r.steps[r.idx]
	next := s.Duration - r.elapsed
	if s.To != nil && next > r.a.frame {
		next = r.a.frame
	}
	r.pending = r.a.sched.ScheduleOnce(next, func() { r.tick(next) })
}

func (r *run) tick(d time.Duration) {
	if r.over {
		return
	}
	s := r.steps[r.idx]
	r.elapsed += d
	if s.To != nil {
		p := float64(r.elapsed) / float64(s.Duration)
		if p >= 1 {
			r.set(*s.To)
		} else {
			ease := s.Easing
			if ease == nil {
				ease = Linear
			}
			r.set(r.from + (*s.To-r.from)*ease(p))
		}
	}
	if r.elapsed >= s.Duration {
		r.idx++
		r.begin()
		return
	}
	r.schedule()
}

func (r *run) set(v float64) {
	r.v.Set(v)
	if r.a.onFrame != nil {
		r.a.onFrame()
	}
}
