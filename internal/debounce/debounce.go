// Package debounce runs the last of a burst of scheduled actions after a
// quiet period.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer a Debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through
// SystemAfterFunc; tests pass a fake.
type AfterFunc func(d time.Duration, f func()) Timer

// SystemAfterFunc wraps time.AfterFunc.
func SystemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer holds at most one pending action. Scheduling a new action
// cancels the pending one.
type Debouncer struct {
	delay     time.Duration
	afterFunc AfterFunc

	mu         sync.Mutex
	timer      Timer
	generation uint64
}

// New returns a Debouncer with the given delay. A nil afterFunc uses
// SystemAfterFunc.
func New(delay time.Duration, afterFunc AfterFunc) *Debouncer {
	if afterFunc == nil {
		afterFunc = SystemAfterFunc
	}
	return &Debouncer{delay: delay, afterFunc: afterFunc}
}

// Schedule cancels any pending action and runs f after the delay.
func (d *Debouncer) Schedule(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel discards the pending action, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
	return true
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
