package mainloop

import (
	"sync"
	"time"
)

// Debouncer is a single-slot timer: every Trigger rearms it, and only the
// last function triggered within the window runs, on the loop.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	post    func(func())
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, post func(func())) *Debouncer {
	if post == nil {
		panic("mainloop.NewDebouncer: post function cannot be nil")
	}
	return &Debouncer{delay: delay, post: post}
}

// Trigger (re)starts the window and replaces the pending function.
func (d *Debouncer) Trigger(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.post(func() {
			d.mu.Lock()
			// a later Trigger or Stop superseded this timer
			if d.stopped || gen != d.gen {
				d.mu.Unlock()
				return
			}
			d.timer = nil
			d.mu.Unlock()
			fn()
		})
	})
}

// Pending reports whether a triggered function is still waiting.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending function. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
