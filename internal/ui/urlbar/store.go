package urlbar

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/mainloop"
)

const (
	defaultFetchTimeout = 3 * time.Second
	subscriberBuffer    = 16

	// UpdateFramesChanged is the Update.Event of frame bookkeeping changes.
	UpdateFramesChanged = "frames_changed"
)

// Update is published to subscribers after every state change.
type Update struct {
	Event string `json:"event"`
	State State  `json:"state"`
}

// Store owns the URL-bar state. All reads and writes of the state happen
// on the main loop; fetches run on their own goroutines and post their
// results back as SearchResultsAvailable events.
type Store struct {
	ctx          context.Context
	loop         *mainloop.Loop
	reducer      *Reducer
	fetcher      port.SearchSuggestionFetcher
	fetchTimeout time.Duration

	// loop-owned
	state       State
	fetchTokens map[int]uint64

	// published copy of state for readers off the loop
	published atomic.Pointer[State]

	subMu   sync.Mutex
	subs    map[int]chan Update
	nextSub int

	inflight sync.WaitGroup
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithFetchTimeout bounds each suggestion fetch.
func WithFetchTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// NewStore creates a store seeded with initial. ctx carries the logger and
// bounds background fetches.
func NewStore(
	ctx context.Context,
	loop *mainloop.Loop,
	reducer *Reducer,
	fetcher port.SearchSuggestionFetcher,
	initial State,
	opts ...StoreOption,
) *Store {
	s := &Store{
		ctx:          logging.WithComponent(ctx, "urlbar"),
		loop:         loop,
		reducer:      reducer,
		fetcher:      fetcher,
		fetchTimeout: defaultFetchTimeout,
		state:        initial,
		fetchTokens:  make(map[int]uint64),
		subs:         make(map[int]chan Update),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.published.Store(&initial)
	return s
}

var _ port.MainFrameResolver = (*Store)(nil)

// MainFrameURL returns the location of the frame showing tabID. It is safe
// to call from any goroutine and sees the state as of the last change.
func (s *Store) MainFrameURL(tabID int) (string, bool) {
	f, ok := s.published.Load().FrameByTabID(tabID)
	if !ok || f.Location == "" {
		return "", false
	}
	return f.Location, true
}

// Dispatch queues ev on the main loop. It reports false when the loop has stopped.
func (s *Store) Dispatch(ev Event) bool {
	return s.loop.Post(func() { s.apply(ev) })
}

// DispatchWait applies ev and returns the resulting state.
func (s *Store) DispatchWait(ctx context.Context, ev Event) (State, error) {
	var out State
	err := s.loop.Call(ctx, func() {
		s.apply(ev)
		out = s.state
	})
	return out, err
}

// Snapshot returns the current state.
func (s *Store) Snapshot(ctx context.Context) (State, error) {
	var out State
	err := s.loop.Call(ctx, func() { out = s.state })
	return out, err
}

// Mutate applies fn to the state outside the reducer, for frame bookkeeping
// (opening, closing and focusing tabs).
func (s *Store) Mutate(ctx context.Context, fn func(State) State) (State, error) {
	var out State
	err := s.loop.Call(ctx, func() {
		s.state = fn(s.state)
		out = s.state
		s.publish(Update{Event: UpdateFramesChanged, State: out})
	})
	return out, err
}

// Subscribe returns a channel of updates and a function that ends the
// subscription. Slow subscribers miss updates rather than block the loop.
func (s *Store) Subscribe() (<-chan Update, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// Wait blocks until in-flight fetches have finished.
func (s *Store) Wait() {
	s.inflight.Wait()
}

func (s *Store) apply(ev Event) {
	var cmds []Command
	s.state, cmds = s.reducer.Reduce(s.state, ev)
	s.publish(Update{Event: string(ev.Kind()), State: s.state})

	for _, cmd := range cmds {
		s.run(cmd)
	}
}

func (s *Store) run(cmd Command) {
	log := logging.FromContext(s.ctx)
	switch c := cmd.(type) {
	case FetchSuggestions:
		s.fetch(c)
	case ActivateSearchEngine:
		log.Debug().Int("frame", c.FrameKey).Str("provider", c.Provider).Msg("search engine activated")
	}
}

// fetch starts a background request. Only the newest request per tab may
// deliver results; older ones are dropped when they complete.
func (s *Store) fetch(c FetchSuggestions) {
	if s.fetcher == nil {
		return
	}
	s.fetchTokens[c.TabID]++
	token := s.fetchTokens[c.TabID]

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(s.ctx, s.fetchTimeout)
		defer cancel()

		log := logging.FromContext(s.ctx)
		results, err := s.fetcher.Fetch(ctx, c.AutocompleteURL, c.Query)
		if err != nil {
			log.Debug().Err(err).Int("tab", c.TabID).Msg("suggestion fetch abandoned")
			return
		}

		s.loop.Post(func() {
			if s.fetchTokens[c.TabID] != token {
				log.Debug().Int("tab", c.TabID).Str("query", c.Query).Msg("dropping stale suggestions")
				return
			}
			s.apply(SearchResultsAvailable{TabID: c.TabID, Results: results})
		})
	}()
}

func (s *Store) publish(u Update) {
	state := u.State
	s.published.Store(&state)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
