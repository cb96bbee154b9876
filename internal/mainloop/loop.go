// Package mainloop provides the single serial executor that owns URL-bar state
// and debounced filter rebuilds, plus helpers that schedule work onto it.
package mainloop

import (
	"context"
	"errors"
	"sync"

	"github.com/bnema/wayfinder/internal/logging"
)

// ErrLoopStopped is returned when work is submitted to a loop that has exited.
var ErrLoopStopped = errors.New("main loop stopped")

// Loop runs posted functions one at a time, in submission order, on the
// goroutine that called Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running bool
	stopped bool
}

// New creates an idle loop. Work may be posted before Run is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn. It reports false when the loop has already stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Poster adapts Post to the func(func()) shape used by Coalescer and Debouncer.
func (l *Loop) Poster() func(func()) {
	return func(fn func()) { l.Post(fn) }
}

// Run drains the queue until ctx is cancelled. Pending work is dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("main loop already running")
	}
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.running = true
	l.mu.Unlock()

	log := logging.FromContext(ctx)
	log.Debug().Msg("main loop started")

	defer func() {
		l.mu.Lock()
		dropped := len(l.queue)
		l.queue = nil
		l.stopped = true
		l.running = false
		l.mu.Unlock()
		log.Debug().Int("dropped", dropped).Msg("main loop stopped")
	}()

	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			l.runOne(ctx, fn)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) runOne(ctx context.Context, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Error().Interface("panic", r).Msg("main loop task panicked")
		}
	}()
	fn()
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrLoopStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped reports whether Run has returned.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
