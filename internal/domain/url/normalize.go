// Package url provides URL manipulation utilities for the navigation core.
package url

import (
	"net"
	"net/url"
	"strings"
)

// InternalScheme is the scheme of the browser's own pages.
const InternalScheme = "wayfinder"

var explicitSchemes = []string{
	"http://",
	"https://",
	"file://",
	InternalScheme + "://",
	"about:",
	"data:",
	"view-source:",
}

func hasExplicitScheme(input string) bool {
	lower := strings.ToLower(input)
	for _, s := range explicitSchemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}

// Normalize adds https:// prefix if missing for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || hasExplicitScheme(input) {
		return input
	}
	if LooksLikeURL(input) {
		if strings.HasPrefix(input, "localhost") {
			return "http://" + input
		}
		return "https://" + input
	}
	return input
}

// LooksLikeURL checks if the input appears to be a destination rather than a
// search query: "github.com", "localhost:8080", "10.0.0.1/admin", "about:blank".
func LooksLikeURL(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" || strings.ContainsAny(input, " \t") {
		return false
	}
	if hasExplicitScheme(input) {
		return true
	}

	host := input
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return true
	}

	// Contains a dot with something on both sides = likely a URL
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1
}

// Hostname returns the lower-cased host of rawURL without port, or "" when
// the URL cannot be parsed or carries no host.
func Hostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// IsHTTP reports whether rawURL uses the http or https scheme.
func IsHTTP(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// IsInternal reports whether rawURL points at one of the browser's own pages.
func IsInternal(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, InternalScheme+":") || strings.HasPrefix(lower, "about:")
}
