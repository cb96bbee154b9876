package urlbar

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// EventKind discriminates reducer events on the wire.
type EventKind string

const (
	KindSetURL                 EventKind = "set_url"
	KindSearchResultsAvailable EventKind = "search_results_available"
	KindSetNavbarInput         EventKind = "set_navbar_input"
	KindSuggestionsCleared     EventKind = "suggestions_cleared"
)

// ErrUnknownEvent is returned by ParseEvent for an unrecognized kind.
var ErrUnknownEvent = errors.New("unknown url bar event")

// Event is one of the four inputs the reducer understands.
type Event interface {
	Kind() EventKind
}

// SetURL replaces the active frame's URL-bar location, e.g. after a navigation.
type SetURL struct {
	Location string `json:"location"`
}

// SearchResultsAvailable delivers remote suggestions fetched for TabID.
type SearchResultsAvailable struct {
	TabID   int      `json:"tab_id"`
	Results []string `json:"results"`
}

// SetNavbarInput is a keystroke in the active frame's URL bar.
type SetNavbarInput struct {
	Input string `json:"input"`
}

// SuggestionsCleared drops the active frame's provider selection.
type SuggestionsCleared struct{}

func (SetURL) Kind() EventKind                 { return KindSetURL }
func (SearchResultsAvailable) Kind() EventKind { return KindSearchResultsAvailable }
func (SetNavbarInput) Kind() EventKind         { return KindSetNavbarInput }
func (SuggestionsCleared) Kind() EventKind     { return KindSuggestionsCleared }

// ParseEvent decodes {"type": "<kind>", ...fields} into the matching event.
func ParseEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse event: invalid JSON")
	}
	kind := EventKind(gjson.GetBytes(data, "type").String())

	var ev Event
	switch kind {
	case KindSetURL:
		var e SetURL
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		ev = e
	case KindSearchResultsAvailable:
		var e SearchResultsAvailable
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		ev = e
	case KindSetNavbarInput:
		var e SetNavbarInput
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		ev = e
	case KindSuggestionsCleared:
		ev = SuggestionsCleared{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, kind)
	}
	return ev, nil
}
