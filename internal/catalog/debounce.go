// Package catalog implements the client-side query pipeline for the job
// listing: debounced search input, page navigation, the list fetch with its
// degraded fallback, and a view model that drops stale responses.
package catalog

import (
	"sync"
	"time"
)

// DefaultDebounce is how long search input must stay quiet before the pending
// value commits.
const DefaultDebounce = 700 * time.Millisecond

// Debouncer coalesces a burst of values into a single commit of the last one.
// Each Trigger supersedes the pending value and restarts the delay; only the
// value present when the delay elapses is committed.
//
// Trigger and Stop bump a generation counter; a firing timer commits only if
// the generation it was armed under is still current. timer.Stop alone cannot
// carry this: it returns false once the callback is already running, and that
// in-flight callback must not commit a value that was superseded.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending string
	commit  func(string)
}

// NewDebouncer returns a debouncer that calls commit with the settled value.
// A non-positive delay falls back to DefaultDebounce.
func NewDebouncer(delay time.Duration, commit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, commit: commit}
}

// Trigger records value as the pending input and restarts the delay.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = value
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// Superseded by a newer Trigger or a Stop while this callback was
		// already in flight.
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.commit(value)
}

// Stop cancels any pending commit. Values triggered before Stop are never
// committed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
