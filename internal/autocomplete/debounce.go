package autocomplete

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls. The first call of a burst fires
// immediately; later calls inside the window replace a trailing argument
// and restart the window. When the window elapses quietly the trailing
// argument, if any, fires once and the debouncer becomes idle again.
//
// fn runs without the debouncer's lock held. The leading call runs on the
// caller's goroutine, the trailing call on a timer goroutine.
type Debouncer[T any] struct {
	mu          sync.Mutex
	window      time.Duration
	fn          func(T)
	timer       *time.Timer
	seq         uint64 // invalidates timers that lost a race with Call or Cancel
	trailing    T
	hasTrailing bool
}

// NewDebouncer creates a debouncer invoking fn at most once per quiet window.
func NewDebouncer[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, fn: fn}
}

// Call submits arg.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	if d.timer != nil {
		d.trailing = arg
		d.hasTrailing = true
		d.timer.Stop()
		d.scheduleLocked()
		d.mu.Unlock()
		return
	}
	d.scheduleLocked()
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops any trailing argument and ends the current window.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.clearTrailingLocked()
}

// Pending reports whether a trailing call is waiting for the window to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasTrailing
}

func (d *Debouncer[T]) scheduleLocked() {
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() {
		d.expire(seq)
	})
}

func (d *Debouncer[T]) expire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if !d.hasTrailing {
		d.mu.Unlock()
		return
	}
	arg := d.trailing
	d.clearTrailingLocked()
	d.mu.Unlock()

	d.fn(arg)
}

func (d *Debouncer[T]) clearTrailingLocked() {
	var zero T
	d.trailing = zero
	d.hasTrailing = false
}
