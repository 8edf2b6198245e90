package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.ScheduleOnce(300*time.Millisecond, func() { order = append(order, "c") })
	m.ScheduleOnce(100*time.Millisecond, func() { order = append(order, "a") })
	m.ScheduleOnce(200*time.Millisecond, func() { order = append(order, "b") })

	fired := m.Advance(time.Second)

	assert.Equal(t, 3, fired)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManual_SameDueTimeKeepsScheduleOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		m.ScheduleOnce(50*time.Millisecond, func() { order = append(order, i) })
	}

	m.Advance(50 * time.Millisecond)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestManual_ClockStepsToDueTime(t *testing.T) {
	m := NewManual(epoch)
	var seen time.Time
	m.ScheduleOnce(1300*time.Millisecond, func() { seen = m.Now() })

	m.Advance(5 * time.Second)

	assert.Equal(t, epoch.Add(1300*time.Millisecond), seen)
}

func TestManual_NotDueYet(t *testing.T) {
	m := NewManual(epoch)
	called := false
	m.ScheduleOnce(time.Second, func() { called = true })

	assert.Equal(t, 0, m.Advance(999*time.Millisecond))
	assert.False(t, called)
	assert.Equal(t, 1, m.Pending())

	assert.Equal(t, 1, m.Advance(time.Millisecond))
	assert.True(t, called)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbacksScheduledWhileAdvancing(t *testing.T) {
	m := NewManual(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		m.ScheduleOnce(16*time.Millisecond, tick)
	}
	m.ScheduleOnce(0, tick)

	m.Advance(160 * time.Millisecond)

	// t=0,16,...,160
	assert.Equal(t, 11, ticks)
	assert.Equal(t, 1, m.Pending())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual(epoch)
	called := false
	h := m.ScheduleOnce(time.Second, func() { called = true })
	other := m.ScheduleOnce(2*time.Second, func() {})

	require.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "second cancel reports not pending")

	m.Advance(3 * time.Second)
	assert.False(t, called)
	assert.False(t, other.Cancel(), "fired task is no longer pending")
}

func TestManual_CancelFromInsideCallback(t *testing.T) {
	m := NewManual(epoch)
	called := false
	var later Handle
	m.ScheduleOnce(time.Millisecond, func() { later.Cancel() })
	later = m.ScheduleOnce(2*time.Millisecond, func() { called = true })

	m.Advance(time.Second)

	assert.False(t, called)
}

func TestManual_NegativeDelay(t *testing.T) {
	m := NewManual(epoch)
	called := false
	m.ScheduleOnce(-time.Second, func() { called = true })

	m.Advance(0)

	assert.True(t, called)
	assert.Equal(t, epoch, m.Now())
}

func TestManual_NextDue(t *testing.T) {
	m := NewManual(epoch)
	_, ok := m.NextDue()
	assert.False(t, ok)

	m.ScheduleOnce(40*time.Millisecond, func() {})
	due, ok := m.NextDue()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(40*time.Millisecond), due)
}
