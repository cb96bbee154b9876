package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_Defaults(t *testing.T) {
	require.NoError(t, validateConfig(DefaultConfig()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"listen without port", func(c *Config) { c.Server.Listen = "localhost" }, "server.listen"},
		{"negative limit", func(c *Config) { c.URLBar.Limits.Tabs = -1 }, "urlbar.limits.tabs"},
		{"zero decay", func(c *Config) { c.URLBar.AgeDecayHours = 0 }, "urlbar.age_decay_hours"},
		{"zero suggest timeout", func(c *Config) { c.Search.SuggestTimeoutMs = 0 }, "search.suggest_timeout_ms"},
		{"ftp data file", func(c *Config) { c.Adblock.DataFileURL = "ftp://x/{uuid}" }, "adblock.data_file_url"},
		{"template without uuid", func(c *Config) { c.Adblock.DataFileURL = "https://x/list.txt" }, "{uuid}"},
		{"bad recheck", func(c *Config) { c.Adblock.RecheckInterval = "daily" }, "adblock.recheck_interval"},
		{"negative debounce", func(c *Config) { c.Adblock.CustomRulesDebounce = "-1s" }, "adblock.custom_rules_debounce"},
		{"region not uuid", func(c *Config) { c.Adblock.Regions = map[string]bool{"germany": true} }, "adblock.regions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidateConfig_EmptyDataFileURLAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adblock.DataFileURL = ""
	assert.NoError(t, validateConfig(cfg))
}
