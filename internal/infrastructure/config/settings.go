package config

import (
	"strings"
	"time"

	"github.com/bnema/wayfinder/internal/application/port"
)

const regionKeyPrefix = "adblock.regions."

// Settings implements port.Settings over the manager's current config.
// Every read sees the latest reload.
type Settings struct {
	manager *Manager
}

var _ port.Settings = (*Settings)(nil)

// NewSettings adapts a loaded Manager to port.Settings.
func NewSettings(m *Manager) *Settings {
	return &Settings{manager: m}
}

func (s *Settings) current() *Config {
	s.manager.mu.RLock()
	defer s.manager.mu.RUnlock()
	if s.manager.config == nil {
		return DefaultConfig()
	}
	return s.manager.config
}

// Bool returns the boolean setting for key, false for unknown keys.
func (s *Settings) Bool(key string) bool {
	cfg := s.current()
	switch key {
	case port.SettingHistorySuggestions:
		return cfg.URLBar.HistorySuggestions
	case port.SettingBookmarkSuggestions:
		return cfg.URLBar.BookmarkSuggestions
	case port.SettingOpenedTabSuggestions:
		return cfg.URLBar.OpenedTabSuggestions
	case port.SettingOfferSuggestions:
		return cfg.Search.OfferSuggestions
	case port.SettingAdblockEnabled:
		return cfg.Adblock.Enabled
	case port.SettingSafeBrowsingEnabled:
		return cfg.SafeBrowsing.Enabled
	}
	if id, ok := strings.CutPrefix(key, regionKeyPrefix); ok {
		return cfg.Adblock.Regions[strings.ToLower(id)]
	}
	return false
}

// String returns the string setting for key, "" for unknown keys.
func (s *Settings) String(key string) string {
	cfg := s.current()
	switch key {
	case port.SettingCustomRules:
		return cfg.Adblock.CustomRules
	case "adblock.data_file_url":
		return cfg.Adblock.DataFileURL
	case "search.default_provider":
		return cfg.Search.DefaultProvider
	}
	return ""
}

// SetCustomRules persists the user's rule list.
func (s *Settings) SetCustomRules(rules string) error {
	return s.manager.Set(port.SettingCustomRules, rules)
}

// SetRegion enables or disables a regional list.
func (s *Settings) SetRegion(id string, enabled bool) error {
	return s.manager.Set(port.RegionSettingKey(id), enabled)
}

// RecheckDuration parses RecheckInterval, falling back to the default.
func (a AdblockConfig) RecheckDuration() time.Duration {
	return parseDuration(a.RecheckInterval, defaultRecheckInterval)
}

// DebounceDuration parses CustomRulesDebounce, falling back to the default.
func (a AdblockConfig) DebounceDuration() time.Duration {
	return parseDuration(a.CustomRulesDebounce, defaultCustomRulesDebounce)
}

// AgeDecay converts AgeDecayHours to a duration.
func (u URLBarConfig) AgeDecay() time.Duration {
	return time.Duration(u.AgeDecayHours * float64(time.Hour))
}

// SuggestTimeout converts SuggestTimeoutMs to a duration.
func (s SearchConfig) SuggestTimeout() time.Duration {
	return time.Duration(s.SuggestTimeoutMs) * time.Millisecond
}

// ShutdownTimeout converts ShutdownTimeoutSec to a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

func parseDuration(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
