package mainloop

import "sync"

// Coalescer merges bursts of same-key loop tasks: only the latest function
// posted for a key runs, once, on the next loop turn.
type Coalescer struct {
	mu        sync.Mutex
	latest    map[string]func()
	post      func(func())
	destroyed bool
}

func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		latest: make(map[string]func()),
		post:   post,
	}
}

func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	_, scheduled := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()

	if scheduled {
		return
	}
	c.post(func() { c.fire(key) })
}

func (c *Coalescer) fire(key string) {
	c.mu.Lock()
	fn, ok := c.latest[key]
	delete(c.latest, key)
	destroyed := c.destroyed
	c.mu.Unlock()

	if ok && !destroyed {
		fn()
	}
}

// Pending returns the number of keys waiting for their loop turn.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.latest)
}

func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	clear(c.latest)
	c.mu.Unlock()
}
