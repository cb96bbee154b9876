package config

// Config represents the complete configuration for wayfinder.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	// Server configures the local HTTP API started by `wayfinder serve`.
	Server ServerConfig `mapstructure:"server" toml:"server" json:"server"`
	// URLBar controls which suggestion pools feed the URL bar and their sizes.
	URLBar URLBarConfig `mapstructure:"urlbar" toml:"urlbar" json:"urlbar"`
	Search SearchConfig `mapstructure:"search" toml:"search" json:"search"`
	// Adblock controls request filtering and the filter list downloads.
	Adblock      AdblockConfig      `mapstructure:"adblock" toml:"adblock" json:"adblock"`
	SafeBrowsing SafeBrowsingConfig `mapstructure:"safe_browsing" toml:"safe_browsing" json:"safe_browsing"`
}

// DatabaseConfig holds the history/bookmark store location.
type DatabaseConfig struct {
	// Path to the SQLite file. Empty means $XDG_DATA_HOME/wayfinder/wayfinder.sqlite.
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
}

// LogFormat selects the zerolog writer.
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

// LoggingConfig mirrors logging.Config plus file output.
type LoggingConfig struct {
	Level  string    `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format LogFormat `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=json,enum=console"`
	// EnableFileLog also writes JSON logs to LogDir, rotated by size.
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir,omitempty"`
	// MaxSizeMB is the size at which the active log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	// MaxAge is the number of days rotated files are kept.
	MaxAge int `mapstructure:"max_age" toml:"max_age" json:"max_age" jsonschema:"minimum=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `mapstructure:"listen" toml:"listen" json:"listen"`
	// ShutdownTimeoutSec bounds the graceful shutdown of in-flight requests.
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" toml:"shutdown_timeout_sec" json:"shutdown_timeout_sec" jsonschema:"minimum=1"`
}

// URLBarConfig toggles and sizes the suggestion pools.
type URLBarConfig struct {
	HistorySuggestions   bool         `mapstructure:"history_suggestions" toml:"history_suggestions" json:"history_suggestions"`
	BookmarkSuggestions  bool         `mapstructure:"bookmark_suggestions" toml:"bookmark_suggestions" json:"bookmark_suggestions"`
	OpenedTabSuggestions bool         `mapstructure:"opened_tab_suggestions" toml:"opened_tab_suggestions" json:"opened_tab_suggestions"`
	AgeDecayHours        float64      `mapstructure:"age_decay_hours" toml:"age_decay_hours" json:"age_decay_hours" jsonschema:"exclusiveMinimum=0"`
	Limits               URLBarLimits `mapstructure:"limits" toml:"limits" json:"limits"`
}

// URLBarLimits caps each pool.
type URLBarLimits struct {
	History    int `mapstructure:"history" toml:"history" json:"history" jsonschema:"minimum=0"`
	Bookmarks  int `mapstructure:"bookmarks" toml:"bookmarks" json:"bookmarks" jsonschema:"minimum=0"`
	AboutPages int `mapstructure:"about_pages" toml:"about_pages" json:"about_pages" jsonschema:"minimum=0"`
	Tabs       int `mapstructure:"tabs" toml:"tabs" json:"tabs" jsonschema:"minimum=0"`
	Search     int `mapstructure:"search" toml:"search" json:"search" jsonschema:"minimum=0"`
	TopSites   int `mapstructure:"top_sites" toml:"top_sites" json:"top_sites" jsonschema:"minimum=0"`
}

// SearchConfig controls remote search suggestions.
type SearchConfig struct {
	OfferSuggestions bool `mapstructure:"offer_suggestions" toml:"offer_suggestions" json:"offer_suggestions"`
	// DefaultProvider names the catalog provider used when no shortcut is typed.
	DefaultProvider string `mapstructure:"default_provider" toml:"default_provider" json:"default_provider,omitempty"`
	// SuggestTimeoutMs bounds one autocomplete request.
	SuggestTimeoutMs int `mapstructure:"suggest_timeout_ms" toml:"suggest_timeout_ms" json:"suggest_timeout_ms" jsonschema:"minimum=1"`
	// SuggestCacheSize is the number of (endpoint, query) responses kept in memory.
	SuggestCacheSize int `mapstructure:"suggest_cache_size" toml:"suggest_cache_size" json:"suggest_cache_size" jsonschema:"minimum=0"`
}

// AdblockConfig controls request filtering.
type AdblockConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// CustomRules is the user's own rule list, one rule per line.
	CustomRules string `mapstructure:"custom_rules" toml:"custom_rules" json:"custom_rules,omitempty"`
	// Regions enables regional lists by UUID.
	Regions map[string]bool `mapstructure:"regions" toml:"regions" json:"regions,omitempty"`
	// DataFileURL is the download template; {uuid} and {version} are expanded.
	DataFileURL string `mapstructure:"data_file_url" toml:"data_file_url" json:"data_file_url"`
	// RecheckInterval is a Go duration string such as "24h".
	RecheckInterval string `mapstructure:"recheck_interval" toml:"recheck_interval" json:"recheck_interval"`
	// CustomRulesDebounce is a Go duration string such as "1500ms".
	CustomRulesDebounce string `mapstructure:"custom_rules_debounce" toml:"custom_rules_debounce" json:"custom_rules_debounce"`
	// Offline disables all list downloads; only cached lists are loaded.
	Offline bool `mapstructure:"offline" toml:"offline" json:"offline"`
}

// SafeBrowsingConfig toggles the main-frame safe browsing list.
type SafeBrowsingConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
}
