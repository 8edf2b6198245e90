package scheduler

import (
	"container/heap"
	"time"
)

// Manual is a simulated-time scheduler. Nothing fires until Advance is called,
// and then due callbacks run synchronously on the caller's goroutine, ordered
// by due time and then by scheduling order.
type Manual struct {
	now   time.Time
	seq   uint64
	queue taskQueue
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the simulated time.
func (m *Manual) Now() time.Time {
	return m.now
}

// ScheduleOnce queues fn to run once the clock has advanced by delay.
// Negative delays are treated as zero.
func (m *Manual) ScheduleOnce(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	m.seq++
	t := &manualTask{
		due: m.now.Add(delay),
		seq: m.seq,
		fn:  fn,
		m:   m,
	}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that becomes due
// on the way. Callbacks scheduled while advancing fire too if they fall inside
// the window. It returns the number of callbacks fired.
func (m *Manual) Advance(d time.Duration) int {
	return m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves the clock to target, firing due callbacks. It never moves
// the clock backwards.
func (m *Manual) AdvanceTo(target time.Time) int {
	fired := 0
	for m.queue.Len() > 0 {
		next := m.queue[0]
		if next.due.After(target) {
			break
		}
		heap.Pop(&m.queue)
		if next.due.After(m.now) {
			m.now = next.due
		}
		next.index = -1
		next.fn()
		fired++
	}
	if target.After(m.now) {
		m.now = target
	}
	return fired
}

// Pending returns the number of callbacks that have not fired or been cancelled.
func (m *Manual) Pending() int {
	return m.queue.Len()
}

// NextDue reports when the earliest pending callback is due.
func (m *Manual) NextDue() (time.Time, bool) {
	if m.queue.Len() == 0 {
		return time.Time{}, false
	}
	return m.queue[0].due, true
}

type manualTask struct {
	due   time.Time
	seq   uint64
	fn    func()
	index int
	m     *Manual
}

func (t *manualTask) Cancel() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.m.queue, t.index)
	t.index = -1
	return true
}

// taskQueue is a min-heap on (due, seq).
type taskQueue []*manualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*manualTask)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
