// Package urlbar holds the URL-bar state tree, the pure reducer that
// advances it, and the store that runs the reducer on the main loop.
package urlbar

import (
	"slices"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// DefaultSearch is the window-wide search engine used when a frame has not
// activated a provider.
type DefaultSearch struct {
	SearchURL       string `json:"search_url"`
	AutocompleteURL string `json:"autocomplete_url,omitempty"`
}

// SearchDetail is the provider a frame activated through its shortcut.
type SearchDetail struct {
	entity.SearchProvider
	ActivateSearchEngine bool `json:"activate_search_engine"`
}

// Suggestions holds the remote results attached to a frame.
type Suggestions struct {
	SearchResults []string `json:"search_results"`
}

// URLBar is the per-frame URL-bar state.
type URLBar struct {
	Location     string        `json:"location"`
	SearchDetail *SearchDetail `json:"search_detail,omitempty"`
	Suggestions  Suggestions   `json:"suggestions"`
}

// Navbar wraps the URL bar.
type Navbar struct {
	URLBar URLBar `json:"urlbar"`
}

// Frame is one tab of the window.
type Frame struct {
	Key      int    `json:"key"`
	TabID    int    `json:"tab_id"`
	Location string `json:"location"`
	Title    string `json:"title"`
	Navbar   Navbar `json:"navbar"`
}

// State is the window state. Values are treated as immutable: every
// transition returns a new State that shares untouched frames.
type State struct {
	ActiveFrameKey int           `json:"active_frame_key"`
	SearchDetail   DefaultSearch `json:"search_detail"`
	Frames         []Frame       `json:"frames"`
}

// ActiveFrame returns the frame whose key is ActiveFrameKey.
func (s State) ActiveFrame() (Frame, bool) {
	return s.frameBy(func(f Frame) bool { return f.Key == s.ActiveFrameKey })
}

// FrameByTabID returns the frame showing tabID.
func (s State) FrameByTabID(tabID int) (Frame, bool) {
	return s.frameBy(func(f Frame) bool { return f.TabID == tabID })
}

func (s State) frameBy(match func(Frame) bool) (Frame, bool) {
	i := slices.IndexFunc(s.Frames, match)
	if i < 0 {
		return Frame{}, false
	}
	return s.Frames[i], true
}

// updateFrame returns a copy of s with the frame keyed key replaced by
// fn(frame). Other frames are shared. Unknown keys return s unchanged.
func (s State) updateFrame(key int, fn func(Frame) Frame) State {
	i := slices.IndexFunc(s.Frames, func(f Frame) bool { return f.Key == key })
	if i < 0 {
		return s
	}
	frames := slices.Clone(s.Frames)
	frames[i] = fn(frames[i])
	s.Frames = frames
	return s
}

func (f Frame) withLocation(location string) Frame {
	f.Navbar.URLBar.Location = location
	return f
}

func (f Frame) withSearchResults(results []string) Frame {
	f.Navbar.URLBar.Suggestions.SearchResults = results
	return f
}

func (f Frame) withSearchDetail(detail *SearchDetail) Frame {
	f.Navbar.URLBar.SearchDetail = detail
	return f
}

// WithFrame returns a copy of s with frame added, or replacing the frame
// with the same key.
func (s State) WithFrame(frame Frame) State {
	frames := slices.Clone(s.Frames)
	if i := slices.IndexFunc(frames, func(f Frame) bool { return f.Key == frame.Key }); i >= 0 {
		frames[i] = frame
	} else {
		frames = append(frames, frame)
	}
	s.Frames = frames
	return s
}

// WithoutFrame returns a copy of s without the frame keyed key.
func (s State) WithoutFrame(key int) State {
	s.Frames = slices.DeleteFunc(slices.Clone(s.Frames), func(f Frame) bool { return f.Key == key })
	return s
}
