package urlbar

import (
	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/url"
)

// Reducer advances State for one event. It never mutates its input and
// performs no I/O; side effects come back as commands.
type Reducer struct {
	providers []entity.SearchProvider
	settings  port.Settings
}

// NewReducer creates a reducer over the catalog's providers.
func NewReducer(catalog port.Catalog, settings port.Settings) *Reducer {
	return &Reducer{providers: catalog.Providers(), settings: settings}
}

// Reduce returns the state after ev and the commands it requests.
func (r *Reducer) Reduce(state State, ev Event) (State, []Command) {
	switch e := ev.(type) {
	case SetURL:
		return r.setURL(state, e)
	case SearchResultsAvailable:
		return searchResultsAvailable(state, e), nil
	case SetNavbarInput:
		return r.setNavbarInput(state, e)
	case SuggestionsCleared:
		return state.updateFrame(state.ActiveFrameKey, func(f Frame) Frame {
			return f.withSearchDetail(nil)
		}), nil
	default:
		return state, nil
	}
}

func (r *Reducer) setURL(state State, e SetURL) (State, []Command) {
	state = state.updateFrame(state.ActiveFrameKey, func(f Frame) Frame {
		return f.withLocation(e.Location).withSearchResults([]string{})
	})
	return r.detectSearchEngine(state)
}

func searchResultsAvailable(state State, e SearchResultsAvailable) State {
	frame, ok := state.FrameByTabID(e.TabID)
	if !ok {
		return state
	}
	results := e.Results
	if results == nil {
		results = []string{}
	}
	return state.updateFrame(frame.Key, func(f Frame) Frame {
		return f.withSearchResults(results)
	})
}

func (r *Reducer) setNavbarInput(state State, e SetNavbarInput) (State, []Command) {
	if _, ok := state.ActiveFrame(); !ok {
		return state, nil
	}
	state = state.updateFrame(state.ActiveFrameKey, func(f Frame) Frame {
		return f.withLocation(e.Input)
	})
	state, cmds := r.detectSearchEngine(state)

	frame, _ := state.ActiveFrame()
	bar := frame.Navbar.URLBar

	autocompleteURL := state.SearchDetail.AutocompleteURL
	shortcut := ""
	if bar.SearchDetail != nil {
		autocompleteURL = bar.SearchDetail.AutocompleteURL
		shortcut = bar.SearchDetail.Shortcut
	}

	input := bar.Location
	query := url.StripShortcut(input, shortcut)
	if !r.settings.Bool(port.SettingOfferSuggestions) || autocompleteURL == "" ||
		input == "" || url.LooksLikeURL(input) || query == "" {
		return clearActiveResults(state), cmds
	}

	return state, append(cmds, FetchSuggestions{
		TabID:           frame.TabID,
		AutocompleteURL: autocompleteURL,
		Query:           query,
	})
}

// detectSearchEngine activates the provider whose "shortcut " prefixes the
// active frame's input, unless the input is URL-like or already carries the
// current provider's prefix.
func (r *Reducer) detectSearchEngine(state State) (State, []Command) {
	frame, ok := state.ActiveFrame()
	if !ok {
		return state, nil
	}
	input := frame.Navbar.URLBar.Location
	if input == "" || url.LooksLikeURL(input) {
		return state, nil
	}
	if current := frame.Navbar.URLBar.SearchDetail; current != nil && url.HasShortcutPrefix(input, current.Shortcut) {
		return state, nil
	}

	for _, p := range r.providers {
		if !url.HasShortcutPrefix(input, p.Shortcut) {
			continue
		}
		detail := &SearchDetail{SearchProvider: p, ActivateSearchEngine: true}
		state = state.updateFrame(frame.Key, func(f Frame) Frame {
			return f.withSearchDetail(detail)
		})
		return state, []Command{ActivateSearchEngine{FrameKey: frame.Key, Provider: p.Name}}
	}
	return state, nil
}

func clearActiveResults(state State) State {
	return state.updateFrame(state.ActiveFrameKey, func(f Frame) Frame {
		return f.withSearchResults([]string{})
	})
}
