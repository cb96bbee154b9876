package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "http scheme unchanged", input: "http://example.com", want: "http://example.com"},
		{name: "https scheme unchanged", input: "https://example.com", want: "https://example.com"},
		{name: "file scheme unchanged", input: "file:///path/to/file.html", want: "file:///path/to/file.html"},
		{name: "internal scheme unchanged", input: "wayfinder://history", want: "wayfinder://history"},
		{name: "about scheme unchanged", input: "about:blank", want: "about:blank"},
		{name: "domain gets https", input: "example.com", want: "https://example.com"},
		{name: "domain with path gets https", input: "example.com/path", want: "https://example.com/path"},
		{name: "localhost gets http", input: "localhost:3000/app", want: "http://localhost:3000/app"},
		{name: "search query unchanged", input: "hello world", want: "hello world"},
		{name: "single word unchanged", input: "golang", want: "golang"},
		{name: "surrounding space trimmed", input: "  example.com ", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestLooksLikeURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"github.com", true},
		{"google.com/search", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"about:preferences", true},
		{"localhost", true},
		{"localhost:8080", true},
		{"192.168.1.1/admin", true},
		{"[::1]:8080", true},
		{"goog", false},
		{"g golang", false},
		{"trailing.", false},
		{".leading", false},
		{"two words.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeURL(tt.input))
		})
	}
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "example.com", Hostname("http://Example.com:8080/"))
	assert.Equal(t, "", Hostname("not a url"))
	assert.Equal(t, "www.youtube.com", Hostname("https://WWW.youtube.com/"))
	assert.Equal(t, "", Hostname(""))
	assert.Equal(t, "", Hostname("%zz://bad"))
}

func TestIsHTTPAndInternal(t *testing.T) {
	assert.True(t, IsHTTP("https://example.com"))
	assert.True(t, IsHTTP("HTTP://example.com"))
	assert.False(t, IsHTTP("file:///etc/hosts"))
	assert.False(t, IsHTTP("wayfinder://about"))

	assert.True(t, IsInternal("wayfinder://history"))
	assert.True(t, IsInternal("about:blank"))
	assert.False(t, IsInternal("https://example.com"))
}

func TestIsThirdPartyHost(t *testing.T) {
	tests := []struct {
		name      string
		firstPart string
		host      string
		want      bool
	}{
		{"same host", "example.com", "example.com", false},
		{"subdomain", "example.com", "ads.example.com", false},
		{"different domain", "example.com", "ads.example.net", true},
		{"suffix without dot", "example.com", "badexample.com", true},
		{"case insensitive", "Example.com", "CDN.example.COM", false},
		{"empty first party", "", "example.com", true},
		{"empty host", "example.com", "", true},
		{"parent of first party", "www.example.com", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsThirdPartyHost(tt.firstPart, tt.host))
		})
	}
}
