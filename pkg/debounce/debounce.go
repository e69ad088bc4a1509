// Package debounce collapses bursts of calls into a single deferred
// invocation. Only the last value of a burst is delivered.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by form fields when none is set.
const DefaultDelay = 500 * time.Millisecond

// Debouncer defers fn until delay has elapsed without another Call. A zero or
// negative delay invokes fn synchronously. Callbacks run on the timer
// goroutine, outside the debouncer lock.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	value   T
	pending bool
	stopped bool
	gen     uint64
}

// New constructs a Debouncer for fn. A nil fn yields a debouncer whose calls
// are dropped.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Delay reports the configured quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Call schedules fn(v), replacing any pending value and restarting the
// timer. Calls after Stop are ignored.
func (d *Debouncer[T]) Call(v T) {
	if d == nil || d.fn == nil {
		return
	}
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn(v)
		return
	}

	d.value = v
	d.pending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()
	d.fn(v)
}

// Flush delivers a pending value immediately. It reports whether fn ran.
func (d *Debouncer[T]) Flush() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.take()
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Cancel drops a pending value without invoking fn.
func (d *Debouncer[T]) Cancel() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels any pending value and ignores every later Call.
func (d *Debouncer[T]) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a value is waiting for the timer.
func (d *Debouncer[T]) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	var zero T
	d.value = zero
}

func (d *Debouncer[T]) take() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	d.timer = nil
	return v
}
