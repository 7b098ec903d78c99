package pagination

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period between a growth signal and the growth.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs at most one delayed action at a time. Actions scheduled while
// one is pending are folded into it.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
	closed     bool
}

// NewDebouncer returns a Debouncer with the given delay. A delay of zero or
// less selects DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule arranges for fn to run after the delay. It returns false when the
// signal was coalesced into a pending action or the Debouncer is closed.
func (d *Debouncer) Schedule(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.timer != nil {
		return false
	}

	generation := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || d.generation != generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.generation++
		d.mu.Unlock()

		fn()
	})
	return true
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the pending action, if any. Once Cancel returns the dropped
// action will not run.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropLocked()
}

// Close drops the pending action and refuses every later Schedule.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropLocked()
	d.closed = true
}

func (d *Debouncer) dropLocked() {
	if d.timer == nil {
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
}
