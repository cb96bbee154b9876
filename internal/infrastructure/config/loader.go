package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/wayfinder/internal/logging"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper for TOML as default format
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// WAYFINDER_ prefix, e.g. WAYFINDER_DATABASE_PATH, WAYFINDER_SERVER_LISTEN.
	v.SetEnvPrefix("WAYFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The logging variables are shorter than the key path.
	if err := v.BindEnv("logging.level", "WAYFINDER_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind WAYFINDER_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "WAYFINDER_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind WAYFINDER_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := resolvePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configFile, _ = GetConfigFile()
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}

		if createErr := m.createDefaultConfig(); createErr != nil {
			configDir, _ := GetConfigDir()
			return fmt.Errorf(
				"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
				configDir,
				createErr,
			)
		}
		if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
			return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
		}
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	return config, nil
}

func resolvePaths(config *Config) error {
	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	if config.Logging.LogDir == "" {
		logDir, err := GetLogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		config.Logging.LogDir = logDir
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if config.Logging.Level == "" {
		config.Logging.Level = defaultLogLevel
	}

	switch strings.ToLower(string(config.Logging.Format)) {
	case string(LogFormatJSON):
		config.Logging.Format = LogFormatJSON
	default:
		config.Logging.Format = LogFormatConsole
	}

	if config.Adblock.Regions == nil {
		config.Adblock.Regions = map[string]bool{}
	}
	normalized := make(map[string]bool, len(config.Adblock.Regions))
	for id, enabled := range config.Adblock.Regions {
		normalized[strings.ToLower(id)] = enabled
	}
	config.Adblock.Regions = normalized

	config.Adblock.CustomRules = strings.ReplaceAll(config.Adblock.CustomRules, "\r\n", "\n")
	config.Server.Listen = strings.TrimSpace(config.Server.Listen)
	config.Search.DefaultProvider = strings.TrimSpace(config.Search.DefaultProvider)
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	return m.config.clone()
}

func (c *Config) clone() *Config {
	out := *c
	out.Adblock.Regions = make(map[string]bool, len(c.Adblock.Regions))
	for k, v := range c.Adblock.Regions {
		out.Adblock.Regions[k] = v
	}
	return &out
}

// Set updates a single key, validates the result and writes the config file.
// Callbacks registered with OnConfigChange are notified.
func (m *Manager) Set(key string, value any) error {
	m.mu.Lock()

	previous := m.viper.Get(key)
	m.viper.Set(key, value)

	config, err := m.unmarshalConfig()
	if err == nil {
		err = resolvePaths(config)
	}
	if err == nil {
		normalizeConfig(config)
		err = validateConfig(config)
	}
	if err != nil {
		m.viper.Set(key, previous)
		m.mu.Unlock()
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := m.viper.WriteConfig(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to write config: %w", err)
	}

	m.config = config
	// The watcher sees our own write; the in-memory config is already current.
	if m.watching {
		m.skipNextReload = true
	}
	m.notifyCallbacksLocked()
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes the defaults and the JSON schema next to them.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log := logging.NewFromEnv()
	log.Info().Str("path", configFile).Msg("created default configuration file")

	if err := GenerateSchemaFile(filepath.Dir(configFile)); err != nil {
		log.Warn().Err(err).Msg("failed to write config schema")
	}
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: Database.Path and Logging.LogDir are resolved in Load()

	m.setLoggingDefaults(defaults)
	m.setServerDefaults(defaults)
	m.setURLBarDefaults(defaults)
	m.setSearchDefaults(defaults)
	m.setAdblockDefaults(defaults)
	m.viper.SetDefault("safe_browsing.enabled", defaults.SafeBrowsing.Enabled)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", string(defaults.Logging.Format))
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
}

func (m *Manager) setServerDefaults(defaults *Config) {
	m.viper.SetDefault("server.listen", defaults.Server.Listen)
	m.viper.SetDefault("server.shutdown_timeout_sec", defaults.Server.ShutdownTimeoutSec)
}

func (m *Manager) setURLBarDefaults(defaults *Config) {
	m.viper.SetDefault("urlbar.history_suggestions", defaults.URLBar.HistorySuggestions)
	m.viper.SetDefault("urlbar.bookmark_suggestions", defaults.URLBar.BookmarkSuggestions)
	m.viper.SetDefault("urlbar.opened_tab_suggestions", defaults.URLBar.OpenedTabSuggestions)
	m.viper.SetDefault("urlbar.age_decay_hours", defaults.URLBar.AgeDecayHours)
	m.viper.SetDefault("urlbar.limits.history", defaults.URLBar.Limits.History)
	m.viper.SetDefault("urlbar.limits.bookmarks", defaults.URLBar.Limits.Bookmarks)
	m.viper.SetDefault("urlbar.limits.about_pages", defaults.URLBar.Limits.AboutPages)
	m.viper.SetDefault("urlbar.limits.tabs", defaults.URLBar.Limits.Tabs)
	m.viper.SetDefault("urlbar.limits.search", defaults.URLBar.Limits.Search)
	m.viper.SetDefault("urlbar.limits.top_sites", defaults.URLBar.Limits.TopSites)
}

func (m *Manager) setSearchDefaults(defaults *Config) {
	m.viper.SetDefault("search.offer_suggestions", defaults.Search.OfferSuggestions)
	m.viper.SetDefault("search.default_provider", defaults.Search.DefaultProvider)
	m.viper.SetDefault("search.suggest_timeout_ms", defaults.Search.SuggestTimeoutMs)
	m.viper.SetDefault("search.suggest_cache_size", defaults.Search.SuggestCacheSize)
}

func (m *Manager) setAdblockDefaults(defaults *Config) {
	m.viper.SetDefault("adblock.enabled", defaults.Adblock.Enabled)
	m.viper.SetDefault("adblock.custom_rules", defaults.Adblock.CustomRules)
	m.viper.SetDefault("adblock.data_file_url", defaults.Adblock.DataFileURL)
	m.viper.SetDefault("adblock.recheck_interval", defaults.Adblock.RecheckInterval)
	m.viper.SetDefault("adblock.custom_rules_debounce", defaults.Adblock.CustomRulesDebounce)
	m.viper.SetDefault("adblock.offline", defaults.Adblock.Offline)
}
