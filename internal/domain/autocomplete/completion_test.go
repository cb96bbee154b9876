package autocomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCompletionSuffix(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		fullText   string
		wantSuffix string
		wantOK     bool
	}{
		{name: "empty input", input: "", fullText: "example.com"},
		{name: "empty fullText", input: "exa", fullText: ""},
		{name: "exact match returns false", input: "example.com", fullText: "example.com"},
		{name: "prefix match", input: "exa", fullText: "example.com", wantSuffix: "mple.com", wantOK: true},
		{name: "case insensitive match", input: "EXA", fullText: "Example.com", wantSuffix: "mple.com", wantOK: true},
		{name: "no match", input: "foo", fullText: "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, ok := ComputeCompletionSuffix(tt.input, tt.fullText)
			assert.Equal(t, tt.wantSuffix, suffix)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStripProtocol(t *testing.T) {
	assert.Equal(t, "example.com", StripProtocol("https://example.com"))
	assert.Equal(t, "example.com/a", StripProtocol("http://example.com/a"))
	assert.Equal(t, "ftp://example.com", StripProtocol("ftp://example.com"))
}

func TestComputeURLCompletionSuffix(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		fullURL        string
		wantSuffix     string
		wantMatchedURL string
		wantOK         bool
	}{
		{
			name:           "https protocol stripped",
			input:          "git",
			fullURL:        "https://github.com/user/repo",
			wantSuffix:     "hub.com/user/repo",
			wantMatchedURL: "github.com/user/repo",
			wantOK:         true,
		},
		{
			name:           "http protocol stripped",
			input:          "news",
			fullURL:        "http://news.ycombinator.com",
			wantSuffix:     ".ycombinator.com",
			wantMatchedURL: "news.ycombinator.com",
			wantOK:         true,
		},
		{
			name:           "www skipped",
			input:          "goo",
			fullURL:        "https://www.google.com",
			wantSuffix:     "gle.com",
			wantMatchedURL: "google.com",
			wantOK:         true,
		},
		{
			name:    "full URL match returns false",
			input:   "example.com",
			fullURL: "https://example.com",
		},
		{
			name:           "URL with path",
			input:          "github.com/user",
			fullURL:        "https://github.com/user/repo",
			wantSuffix:     "/repo",
			wantMatchedURL: "github.com/user/repo",
			wantOK:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suffix, matched, ok := ComputeURLCompletionSuffix(tt.input, tt.fullURL)
			assert.Equal(t, tt.wantSuffix, suffix)
			assert.Equal(t, tt.wantMatchedURL, matched)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestBestURLCompletion_PrefersHostForHostLikeInput(t *testing.T) {
	urls := []string{
		"https://www.google.com/url?q=https://dashboard.stripe.com/auth",
		"https://google.com",
	}

	suffix, matched, ok := BestURLCompletion("goo", urls)
	require.True(t, ok)
	assert.Equal(t, "google.com", matched)
	assert.Equal(t, "gle.com", suffix)
}

func TestBestURLCompletion_KeepsPathForPathLikeInput(t *testing.T) {
	suffix, matched, ok := BestURLCompletion("google.com/u", []string{"https://google.com/url?q=https://example.com"})
	require.True(t, ok)
	assert.Equal(t, "google.com/url?q=https://example.com", matched)
	assert.Equal(t, "rl?q=https://example.com", suffix)
}

func TestBestURLCompletion_SelectsAnyValidPrefix(t *testing.T) {
	suffix, matched, ok := BestURLCompletion("goo", []string{"https://example.org", "https://google.com/maps"})
	require.True(t, ok)
	assert.Equal(t, "google.com", matched)
	assert.Equal(t, "gle.com", suffix)
}

func TestBestURLCompletion_NoMatch(t *testing.T) {
	_, _, ok := BestURLCompletion("zzz", []string{"https://example.org"})
	assert.False(t, ok)
	_, _, ok = BestURLCompletion("", []string{"https://example.org"})
	assert.False(t, ok)
}

func TestComputeCompletionSuffix_CaseFoldChangesByteLength(t *testing.T) {
	// U+212A KELVIN SIGN folds to "k" but is three bytes long.
	suffix, ok := ComputeCompletionSuffix("K", "ka")
	require.True(t, ok)
	assert.Equal(t, "a", suffix)

	suffix, ok = ComputeCompletionSuffix("Ka", "KAYAK")
	require.True(t, ok)
	assert.Equal(t, "YAK", suffix)

	_, ok = ComputeCompletionSuffix("KK", "k")
	assert.False(t, ok)
}

func TestBestURLCompletion_NonASCIIInputDoesNotPanic(t *testing.T) {
	var (
		suffix, matched string
		ok              bool
	)
	require.NotPanics(t, func() {
		suffix, matched, ok = BestURLCompletion("K", []string{"http://ka"})
	})
	require.True(t, ok)
	assert.Equal(t, "ka", matched)
	assert.Equal(t, "a", suffix)
}
