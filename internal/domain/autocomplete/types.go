// Package autocomplete ranks, filters and merges URL-bar suggestion candidates.
package autocomplete

import (
	"slices"
	"strings"
	"time"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/url"
)

// SuggestionType tags the pool a suggestion came from.
type SuggestionType string

const (
	TypeHistory   SuggestionType = "history"
	TypeBookmark  SuggestionType = "bookmark"
	TypeAboutPage SuggestionType = "about"
	TypeTab       SuggestionType = "tab"
	TypeSearch    SuggestionType = "search"
	TypeTopSite   SuggestionType = "topSite"
)

// Candidate is a read-only snapshot of one entry of a candidate pool.
type Candidate struct {
	Title        string
	Location     string
	Tags         []string
	Count        int64
	LastAccessed time.Time // zero when never accessed
	FrameKey     int       // tabs only
}

// HasTag reports whether the candidate carries tag.
func (c Candidate) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// ActionKind discriminates what activating a suggestion does.
type ActionKind string

const (
	ActionNavigate      ActionKind = "navigate"
	ActionActivateFrame ActionKind = "activateFrame"
)

// Action is the value a shell executes when the user picks a suggestion.
type Action struct {
	Kind     ActionKind `json:"kind"`
	URL      string     `json:"url,omitempty"`
	FrameKey int        `json:"frame_key,omitempty"`
}

// Navigate returns an action loading location in the active frame.
func Navigate(location string) Action {
	return Action{Kind: ActionNavigate, URL: location}
}

// ActivateFrame returns an action switching to an open frame.
func ActivateFrame(key int) Action {
	return Action{Kind: ActionActivateFrame, FrameKey: key}
}

// Suggestion is one rendered URL-bar row.
type Suggestion struct {
	Title    string         `json:"title"`
	Location string         `json:"location"`
	Type     SuggestionType `json:"type"`
	Action   Action         `json:"action"`
}

// Query is the per-keystroke context every pool is evaluated against.
type Query struct {
	Input      string
	Lower      string
	IsURL      bool
	Provider   *entity.SearchProvider
	Normalize  bool
	normalized string
}

// NewQuery derives the query context from raw URL-bar input.
func NewQuery(input string, provider *entity.SearchProvider) Query {
	lower := strings.ToLower(input)
	return Query{
		Input:      input,
		Lower:      lower,
		IsURL:      url.LooksLikeURL(input),
		Provider:   provider,
		Normalize:  ShouldNormalizeLocation(lower),
		normalized: NormalizeLocation(lower),
	}
}

// Empty reports whether there is no input at all.
func (q Query) Empty() bool {
	return q.Input == ""
}

// SearchTerms returns the input with the active provider shortcut removed.
func (q Query) SearchTerms() string {
	if q.Provider == nil {
		return q.Input
	}
	return url.StripShortcut(q.Input, q.Provider.Shortcut)
}

// MatchKey is the string candidate locations are searched for when ranking.
func (q Query) MatchKey() string {
	return q.normalized
}
