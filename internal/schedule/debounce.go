// Package schedule provides a cancellable delayed task with a single
// outstanding slot.
package schedule

import "time"

// Debouncer runs a callback once a quiet period has passed since the last
// Schedule call. Scheduling again cancels and replaces the pending task.
//
// A Debouncer is owned by one goroutine (an event loop). Timer expiry is
// handed back to that goroutine through dispatch; the callback only runs if
// no later Schedule or Cancel superseded it in the meantime.
type Debouncer struct {
	delay    time.Duration
	dispatch func(func())

	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. dispatch must run the given function on
// the owning goroutine.
func NewDebouncer(delay time.Duration, dispatch func(func())) *Debouncer {
	return &Debouncer{delay: delay, dispatch: dispatch}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule arranges for fn to run after the quiet period, replacing any
// pending task.
func (d *Debouncer) Schedule(fn func()) {
	d.Cancel()
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.dispatch(func() {
			if d.gen != gen {
				return
			}
			d.timer = nil
			d.gen++
			fn()
		})
	})
}

// Cancel drops the pending task. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a task is waiting to run.
func (d *Debouncer) Pending() bool { return d.timer != nil }
