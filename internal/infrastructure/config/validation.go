package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateServer(config)...)
	validationErrors = append(validationErrors, validateURLBar(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateAdblock(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled", "off":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level %q must be one of trace, debug, info, warn, error", config.Logging.Level))
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must be non-negative")
	}
	return validationErrors
}

func validateServer(config *Config) []string {
	var validationErrors []string
	if _, _, err := net.SplitHostPort(config.Server.Listen); err != nil {
		validationErrors = append(validationErrors, fmt.Sprintf("server.listen %q must be host:port", config.Server.Listen))
	}
	if config.Server.ShutdownTimeoutSec < 1 {
		validationErrors = append(validationErrors, "server.shutdown_timeout_sec must be at least 1")
	}
	return validationErrors
}

func validateURLBar(config *Config) []string {
	var validationErrors []string
	if config.URLBar.AgeDecayHours <= 0 {
		validationErrors = append(validationErrors, "urlbar.age_decay_hours must be positive")
	}
	limits := map[string]int{
		"history":     config.URLBar.Limits.History,
		"bookmarks":   config.URLBar.Limits.Bookmarks,
		"about_pages": config.URLBar.Limits.AboutPages,
		"tabs":        config.URLBar.Limits.Tabs,
		"search":      config.URLBar.Limits.Search,
		"top_sites":   config.URLBar.Limits.TopSites,
	}
	for _, name := range []string{"history", "bookmarks", "about_pages", "tabs", "search", "top_sites"} {
		if limits[name] < 0 {
			validationErrors = append(validationErrors, fmt.Sprintf("urlbar.limits.%s must be non-negative", name))
		}
	}
	return validationErrors
}

func validateSearch(config *Config) []string {
	var validationErrors []string
	if config.Search.SuggestTimeoutMs < 1 {
		validationErrors = append(validationErrors, "search.suggest_timeout_ms must be at least 1")
	}
	if config.Search.SuggestCacheSize < 0 {
		validationErrors = append(validationErrors, "search.suggest_cache_size must be non-negative")
	}
	return validationErrors
}

func validateAdblock(config *Config) []string {
	var validationErrors []string

	if config.Adblock.DataFileURL != "" {
		u, err := url.Parse(config.Adblock.DataFileURL)
		switch {
		case err != nil || (u.Scheme != "http" && u.Scheme != "https"):
			validationErrors = append(validationErrors, "adblock.data_file_url must be an http(s) URL")
		case !strings.Contains(config.Adblock.DataFileURL, "{uuid}"):
			validationErrors = append(validationErrors, "adblock.data_file_url must contain the {uuid} placeholder")
		}
	}

	for key, value := range map[string]string{
		"adblock.recheck_interval":      config.Adblock.RecheckInterval,
		"adblock.custom_rules_debounce": config.Adblock.CustomRulesDebounce,
	} {
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %q must be a positive duration", key, value))
		}
	}

	for id := range config.Adblock.Regions {
		if _, err := uuid.Parse(id); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("adblock.regions key %q is not a UUID", id))
		}
	}
	return validationErrors
}
