package urlbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/application/port/mocks"
	"github.com/bnema/wayfinder/internal/domain/entity"
)

type fakeCatalog struct {
	providers []entity.SearchProvider
}

func (c fakeCatalog) Providers() []entity.SearchProvider { return c.providers }
func (c fakeCatalog) Provider(name string) (entity.SearchProvider, bool) {
	for _, p := range c.providers {
		if p.Name == name {
			return p, true
		}
	}
	return entity.SearchProvider{}, false
}
func (fakeCatalog) AboutPages() []string      { return nil }
func (fakeCatalog) TopSites() []string        { return nil }
func (fakeCatalog) Regions() []entity.Region  { return nil }
func (fakeCatalog) IsInternalURL(string) bool { return false }

var (
	google = entity.SearchProvider{
		Name:            "Google",
		Shortcut:        "g",
		SearchURL:       "https://www.google.com/search?q={searchTerms}",
		AutocompleteURL: "https://suggest.google.test/?q={searchTerms}",
	}
	github = entity.SearchProvider{
		Name:      "GitHub",
		Shortcut:  "gh",
		SearchURL: "https://github.com/search?q={searchTerms}",
	}
)

func newTestReducer(settings port.Settings) *Reducer {
	return NewReducer(fakeCatalog{providers: []entity.SearchProvider{google, github}}, settings)
}

func twoFrameState() State {
	return State{
		ActiveFrameKey: 1,
		SearchDetail: DefaultSearch{
			SearchURL:       "https://duck.test/?q={searchTerms}",
			AutocompleteURL: "https://duck.test/ac?q={searchTerms}",
		},
		Frames: []Frame{
			{Key: 1, TabID: 101, Location: "https://a.test/"},
			{Key: 2, TabID: 102, Location: "https://b.test/"},
		},
	}
}

func activeBar(t *testing.T, s State) URLBar {
	t.Helper()
	f, ok := s.ActiveFrame()
	require.True(t, ok)
	return f.Navbar.URLBar
}

func TestReduce_ShortcutActivatesProvider(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))

	state, cmds := r.Reduce(twoFrameState(), SetNavbarInput{Input: "g "})

	bar := activeBar(t, state)
	require.NotNil(t, bar.SearchDetail)
	assert.Equal(t, "Google", bar.SearchDetail.Name)
	assert.True(t, bar.SearchDetail.ActivateSearchEngine)
	assert.Equal(t, []Command{ActivateSearchEngine{FrameKey: 1, Provider: "Google"}}, cmds,
		"nothing to fetch once the shortcut is stripped")
}

func TestReduce_ShortcutQueryFetchesFromProvider(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))

	state, cmds := r.Reduce(twoFrameState(), SetNavbarInput{Input: "g golang"})

	require.Len(t, cmds, 2)
	assert.Equal(t, ActivateSearchEngine{FrameKey: 1, Provider: "Google"}, cmds[0])
	assert.Equal(t, FetchSuggestions{
		TabID:           101,
		AutocompleteURL: google.AutocompleteURL,
		Query:           "golang",
	}, cmds[1])
	assert.Equal(t, "g golang", activeBar(t, state).Location)

	// Typing on with the provider already active does not re-activate it.
	state, cmds = r.Reduce(state, SetNavbarInput{Input: "g golang tutorial"})
	assert.Equal(t, []Command{FetchSuggestions{TabID: 101, AutocompleteURL: google.AutocompleteURL, Query: "golang tutorial"}}, cmds)
	assert.Equal(t, "Google", activeBar(t, state).SearchDetail.Name)
}

func TestReduce_ShortcutNeedsTrailingSpace(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))

	state, _ := r.Reduce(twoFrameState(), SetNavbarInput{Input: "gh wayfinder"})
	assert.Equal(t, "GitHub", activeBar(t, state).SearchDetail.Name)
}

func TestReduce_SetNavbarInputWithoutFetch(t *testing.T) {
	tests := []struct {
		name     string
		settings *mocks.Settings
		input    string
		state    func() State
	}{
		{"setting off", mocks.NewSettings(), "golang", twoFrameState},
		{"empty input", mocks.NewSettings(port.SettingOfferSuggestions), "", twoFrameState},
		{"url-like input", mocks.NewSettings(port.SettingOfferSuggestions), "github.com/bnema", twoFrameState},
		{"no autocomplete url", mocks.NewSettings(port.SettingOfferSuggestions), "golang", func() State {
			s := twoFrameState()
			s.SearchDetail.AutocompleteURL = ""
			return s
		}},
		{"provider without autocomplete", mocks.NewSettings(port.SettingOfferSuggestions), "gh wayfinder", twoFrameState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReducer(tt.settings)
			start := tt.state()
			start = start.updateFrame(1, func(f Frame) Frame { return f.withSearchResults([]string{"stale"}) })

			state, cmds := r.Reduce(start, SetNavbarInput{Input: tt.input})

			for _, c := range cmds {
				assert.IsType(t, ActivateSearchEngine{}, c)
			}
			assert.Empty(t, activeBar(t, state).Suggestions.SearchResults)
			assert.NotNil(t, activeBar(t, state).Suggestions.SearchResults, "cleared, not removed")
		})
	}
}

func TestReduce_DefaultSearchFetch(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))

	_, cmds := r.Reduce(twoFrameState(), SetNavbarInput{Input: "weather paris"})

	assert.Equal(t, []Command{FetchSuggestions{
		TabID:           101,
		AutocompleteURL: "https://duck.test/ac?q={searchTerms}",
		Query:           "weather paris",
	}}, cmds)
}

func TestReduce_SetURLClearsResults(t *testing.T) {
	r := newTestReducer(mocks.NewSettings())
	start := twoFrameState().updateFrame(1, func(f Frame) Frame { return f.withSearchResults([]string{"x"}) })

	state, cmds := r.Reduce(start, SetURL{Location: "https://c.test/"})

	bar := activeBar(t, state)
	assert.Equal(t, "https://c.test/", bar.Location)
	assert.Equal(t, []string{}, bar.Suggestions.SearchResults)
	assert.Nil(t, bar.SearchDetail, "URL-like locations never activate a provider")
	assert.Empty(t, cmds)
}

func TestReduce_SearchResultsTargetOriginatingTab(t *testing.T) {
	r := newTestReducer(mocks.NewSettings())
	start := twoFrameState()

	state, cmds := r.Reduce(start, SearchResultsAvailable{TabID: 102, Results: []string{"one", "two"}})
	assert.Nil(t, cmds)

	inactive, ok := state.FrameByTabID(102)
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, inactive.Navbar.URLBar.Suggestions.SearchResults)
	assert.Nil(t, activeBar(t, state).Suggestions.SearchResults, "active frame untouched")

	unknown, _ := r.Reduce(start, SearchResultsAvailable{TabID: 999, Results: []string{"x"}})
	assert.Equal(t, start, unknown)
}

func TestReduce_SuggestionsClearedDropsProvider(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))
	state, _ := r.Reduce(twoFrameState(), SetNavbarInput{Input: "g go"})
	require.NotNil(t, activeBar(t, state).SearchDetail)

	state, cmds := r.Reduce(state, SuggestionsCleared{})
	assert.Nil(t, cmds)
	assert.Nil(t, activeBar(t, state).SearchDetail)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))
	start := twoFrameState()
	snapshot := twoFrameState()

	next, _ := r.Reduce(start, SetNavbarInput{Input: "g news"})
	next, _ = r.Reduce(next, SearchResultsAvailable{TabID: 101, Results: []string{"news"}})

	assert.Equal(t, snapshot, start)
	assert.Equal(t, start.Frames[1], next.Frames[1], "untouched frame is shared")
}

func TestReduce_NoActiveFrame(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))
	start := State{ActiveFrameKey: 7}

	for _, ev := range []Event{SetURL{Location: "x"}, SetNavbarInput{Input: "g x"}, SuggestionsCleared{}} {
		state, cmds := r.Reduce(start, ev)
		assert.Equal(t, start, state)
		assert.Empty(t, cmds)
	}
}

func TestSuggestInput(t *testing.T) {
	r := newTestReducer(mocks.NewSettings(port.SettingOfferSuggestions))
	state, _ := r.Reduce(twoFrameState(), SetNavbarInput{Input: "g go"})
	state, _ = r.Reduce(state, SearchResultsAvailable{TabID: 101, Results: []string{"golang"}})

	in, ok := SuggestInput(state)
	require.True(t, ok)
	assert.Equal(t, "g go", in.Input)
	assert.Equal(t, 1, in.ActiveFrameKey)
	assert.Len(t, in.Frames, 2)
	assert.Equal(t, []string{"golang"}, in.SearchResults)
	require.NotNil(t, in.Provider)
	assert.Equal(t, "g", in.Provider.Shortcut)

	_, ok = SuggestInput(State{})
	assert.False(t, ok)
}
