package search

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long typing must pause before a search is
// issued.
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer coalesces raw keystrokes into a single callback after a
// quiet period. It is a persistent object owning one timer; each
// Trigger resets it, and Cancel stops a pending fire. Safe for
// concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	fn    func(value string)
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer that calls fn with the most recent
// value once no Trigger has arrived for quiet.
func NewDebouncer(quiet time.Duration, fn func(value string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger records a new keystroke value and restarts the quiet-period
// timer.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		live := gen == d.gen
		d.mu.Unlock()
		// A Trigger or Cancel that raced the fire wins.
		if live {
			d.fn(value)
		}
	})
}

// Cancel discards any pending fire without calling the callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
