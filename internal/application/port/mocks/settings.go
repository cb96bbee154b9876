package mocks

import "sync"

// Settings is an in-memory port.Settings for tests.
type Settings struct {
	mu      sync.RWMutex
	bools   map[string]bool
	strings map[string]string
}

// NewSettings returns settings with the given boolean keys switched on.
func NewSettings(enabled ...string) *Settings {
	s := &Settings{bools: map[string]bool{}, strings: map[string]string{}}
	for _, k := range enabled {
		s.bools[k] = true
	}
	return s
}

func (s *Settings) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bools[key]
}

func (s *Settings) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strings[key]
}

func (s *Settings) SetBool(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bools[key] = v
}

func (s *Settings) SetString(key, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strings[key] = v
}
