package client

import (
	"sync"
	"time"
)

// SearchDelay is how long the search box must be idle before its value is
// committed as a filter.
const SearchDelay = 500 * time.Millisecond

// Debouncer calls fn with the last value pushed once no new value has
// arrived for the configured delay.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	last  string
}

func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Push records v and restarts the delay.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = v
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush commits a pending value immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil || !d.timer.Stop() {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.gen++
	v := d.last
	d.mu.Unlock()
	d.fn(v)
}

// Stop discards a pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// fire runs on the timer goroutine; a timer that lost the race with a newer
// Push, Flush or Stop sees a different generation and does nothing.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v := d.last
	d.mu.Unlock()
	d.fn(v)
}
