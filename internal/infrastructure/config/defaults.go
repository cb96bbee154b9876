package config

// Default configuration constants
const (
	// Logging defaults
	defaultLogLevel      = "info"
	defaultMaxLogSizeMB  = 10 // megabytes
	defaultMaxLogAgeDays = 7  // days

	// Server defaults
	defaultListen             = "127.0.0.1:7411"
	defaultShutdownTimeoutSec = 5

	// URL bar defaults
	defaultAgeDecayHours = 50.0

	// Search defaults
	defaultSuggestTimeoutMs = 1500
	defaultSuggestCacheSize = 256

	// Adblock defaults
	defaultDataFileURL         = "https://filters.wayfinder.dev/{version}/{uuid}.txt"
	defaultRecheckInterval     = "24h"
	defaultCustomRulesDebounce = "1500ms"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			// Path is resolved from XDG_DATA_HOME at load time.
			Path: "",
		},
		Logging: LoggingConfig{
			Level:         defaultLogLevel,
			Format:        LogFormatConsole,
			EnableFileLog: false,
			MaxSizeMB:     defaultMaxLogSizeMB,
			MaxAge:        defaultMaxLogAgeDays,
		},
		Server: ServerConfig{
			Listen:             defaultListen,
			ShutdownTimeoutSec: defaultShutdownTimeoutSec,
		},
		URLBar: URLBarConfig{
			HistorySuggestions:   true,
			BookmarkSuggestions:  true,
			OpenedTabSuggestions: true,
			AgeDecayHours:        defaultAgeDecayHours,
			Limits: URLBarLimits{
				History:    3,
				Bookmarks:  2,
				AboutPages: 2,
				Tabs:       2,
				Search:     3,
				TopSites:   3,
			},
		},
		Search: SearchConfig{
			OfferSuggestions: true,
			SuggestTimeoutMs: defaultSuggestTimeoutMs,
			SuggestCacheSize: defaultSuggestCacheSize,
		},
		Adblock: AdblockConfig{
			Enabled:             true,
			Regions:             map[string]bool{},
			DataFileURL:         defaultDataFileURL,
			RecheckInterval:     defaultRecheckInterval,
			CustomRulesDebounce: defaultCustomRulesDebounce,
		},
		SafeBrowsing: SafeBrowsingConfig{
			Enabled: true,
		},
	}
}
