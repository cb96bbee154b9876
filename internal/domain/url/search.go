package url

import (
	"net/url"
	"strings"
)

// SearchTermsPlaceholder is replaced by the escaped query in provider templates.
const SearchTermsPlaceholder = "{searchTerms}"

// ShortcutPrefix returns the text that activates a provider shortcut: the
// shortcut followed by a single space ("g " for "g").
func ShortcutPrefix(shortcut string) string {
	return shortcut + " "
}

// HasShortcutPrefix reports whether input starts with shortcut followed by a space.
func HasShortcutPrefix(input, shortcut string) bool {
	if shortcut == "" {
		return false
	}
	return strings.HasPrefix(input, ShortcutPrefix(shortcut))
}

// StripShortcut removes a leading "shortcut " from input and trims the rest.
// Input without the prefix is returned unchanged.
//
//	StripShortcut("g golang", "g")  → "golang"
//	StripShortcut("golang", "g")    → "golang"
func StripShortcut(input, shortcut string) string {
	if !HasShortcutPrefix(input, shortcut) {
		return input
	}
	return strings.TrimSpace(input[len(ShortcutPrefix(shortcut)):])
}

// EscapeSearchTerms escapes a query for use in a search URL. Spaces become %20.
func EscapeSearchTerms(terms string) string {
	return strings.ReplaceAll(url.QueryEscape(terms), "+", "%20")
}

// BuildSearchURL replaces {searchTerms} in template with the escaped terms.
func BuildSearchURL(template, terms string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, SearchTermsPlaceholder, EscapeSearchTerms(terms))
}

// ResolveInput turns URL-bar input into a navigable location: URL-like input
// is normalized, anything else becomes a search with the given template.
func ResolveInput(input, searchTemplate string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if LooksLikeURL(input) {
		return Normalize(input)
	}
	if searchTemplate == "" {
		return input
	}
	return BuildSearchURL(searchTemplate, input)
}
