package urlbar

import (
	"github.com/bnema/wayfinder/internal/application/usecase"
)

// SuggestInput builds the suggestion request for the active frame. It
// reports false when no frame is active.
func SuggestInput(state State) (usecase.SuggestURLBarInput, bool) {
	active, ok := state.ActiveFrame()
	if !ok {
		return usecase.SuggestURLBarInput{}, false
	}

	frames := make([]usecase.OpenFrame, 0, len(state.Frames))
	for _, f := range state.Frames {
		frames = append(frames, usecase.OpenFrame{Key: f.Key, Title: f.Title, Location: f.Location})
	}

	in := usecase.SuggestURLBarInput{
		Input:          active.Navbar.URLBar.Location,
		ActiveFrameKey: active.Key,
		Frames:         frames,
		SearchResults:  active.Navbar.URLBar.Suggestions.SearchResults,
		SearchURL:      state.SearchDetail.SearchURL,
	}
	if d := active.Navbar.URLBar.SearchDetail; d != nil {
		p := d.SearchProvider
		in.Provider = &p
	}
	return in, true
}
