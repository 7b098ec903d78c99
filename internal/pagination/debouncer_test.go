package pagination

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

func TestDebouncer_RunsAfterDelay(t *testing.T) {
	d := NewDebouncer(testDelay)
	defer d.Close()

	var calls atomic.Int32
	start := time.Now()
	var firedAfter atomic.Int64
	require.True(t, d.Schedule(func() {
		firedAfter.Store(int64(time.Since(start)))
		calls.Add(1)
	}))
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, time.Duration(firedAfter.Load()), testDelay)
	assert.False(t, d.Pending())
}

func TestDebouncer_CoalescesWhilePending(t *testing.T) {
	d := NewDebouncer(testDelay)
	defer d.Close()

	var calls atomic.Int32
	fn := func() { calls.Add(1) }

	assert.True(t, d.Schedule(fn))
	assert.False(t, d.Schedule(fn))
	assert.False(t, d.Schedule(fn))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 3*testDelay, 5*time.Millisecond)

	// A fresh signal after the action ran schedules again.
	assert.True(t, d.Schedule(fn))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(testDelay)
	defer d.Close()

	var calls atomic.Int32
	require.True(t, d.Schedule(func() { calls.Add(1) }))
	d.Cancel()
	assert.False(t, d.Pending())

	assert.Never(t, func() bool { return calls.Load() > 0 }, 3*testDelay, 5*time.Millisecond)

	// Cancel leaves the Debouncer usable.
	assert.True(t, d.Schedule(func() { calls.Add(1) }))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
}

func TestDebouncer_Close(t *testing.T) {
	d := NewDebouncer(testDelay)

	var calls atomic.Int32
	require.True(t, d.Schedule(func() { calls.Add(1) }))
	d.Close()

	assert.False(t, d.Schedule(func() { calls.Add(1) }))
	assert.Never(t, func() bool { return calls.Load() > 0 }, 3*testDelay, 5*time.Millisecond)

	d.Close()
	d.Cancel()
}

func TestDebouncer_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDelay, NewDebouncer(0).Delay())
	assert.Equal(t, 300*time.Millisecond, DefaultDelay)
}
