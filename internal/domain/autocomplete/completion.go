package autocomplete

import (
	"strings"
	"unicode/utf8"
)

// ComputeCompletionSuffix returns the suffix if input is a case-insensitive prefix of fullText.
// Returns the suffix and true if input matches as a prefix, otherwise empty string and false.
// Runes are compared by Unicode case folding, so the matched prefix may differ
// in byte length from input.
func ComputeCompletionSuffix(input, fullText string) (string, bool) {
	if input == "" || fullText == "" {
		return "", false
	}

	offset := 0
	for _, want := range input {
		if offset >= len(fullText) {
			return "", false
		}
		got, size := utf8.DecodeRuneInString(fullText[offset:])
		if got != want && !strings.EqualFold(string(got), string(want)) {
			return "", false
		}
		offset += size
	}

	suffix := fullText[offset:]
	return suffix, suffix != ""
}

// StripProtocol removes http:// or https:// prefix from a URL for matching.
func StripProtocol(url string) string {
	if rest, ok := strings.CutPrefix(url, "https://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(url, "http://"); ok {
		return rest
	}
	return url
}

// ComputeURLCompletionSuffix computes the completion suffix for URLs,
// trying the URL as-is, without protocol, and without a leading "www.".
func ComputeURLCompletionSuffix(input, fullURL string) (suffix string, matchedURL string, ok bool) {
	if suffix, ok := ComputeCompletionSuffix(input, fullURL); ok {
		return suffix, fullURL, true
	}

	stripped := StripProtocol(fullURL)
	if suffix, ok := ComputeCompletionSuffix(input, stripped); ok {
		return suffix, stripped, true
	}

	inputNoWWW := strings.TrimPrefix(input, "www.")
	strippedNoWWW := strings.TrimPrefix(stripped, "www.")
	if suffix, ok := ComputeCompletionSuffix(inputNoWWW, strippedNoWWW); ok {
		return suffix, strippedNoWWW, true
	}

	return "", "", false
}

// BestURLCompletion picks the first URL in urls that completes input.
// Host-like input (no path separator) completes to the host only, so
// "goo" offers "google.com" rather than a deep search URL.
func BestURLCompletion(input string, urls []string) (suffix string, matchedURL string, ok bool) {
	if input == "" {
		return "", "", false
	}
	hostOnly := !strings.ContainsAny(input, "/?#")

	for _, u := range urls {
		target := u
		if hostOnly {
			target = hostPart(u)
		}
		if suffix, matched, ok := ComputeURLCompletionSuffix(input, target); ok {
			return suffix, matched, true
		}
	}
	return "", "", false
}

func hostPart(rawURL string) string {
	scheme := ""
	rest := rawURL
	if i := strings.Index(rawURL, "://"); i >= 0 {
		scheme, rest = rawURL[:i+3], rawURL[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return scheme + rest
}
