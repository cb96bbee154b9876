package usecase_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/application/port"
	portmocks "github.com/bnema/wayfinder/internal/application/port/mocks"
	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/domain/autocomplete"
	"github.com/bnema/wayfinder/internal/domain/entity"
	repomocks "github.com/bnema/wayfinder/internal/domain/repository/mocks"
)

var fixedNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func allSettings() *portmocks.Settings {
	return portmocks.NewSettings(
		port.SettingHistorySuggestions,
		port.SettingBookmarkSuggestions,
		port.SettingOpenedTabSuggestions,
		port.SettingOfferSuggestions,
	)
}

func newSuggestUC(t *testing.T, history []*entity.HistoryEntry, favs []*entity.Favorite, settings port.Settings, catalog port.Catalog) *usecase.SuggestURLBarUseCase {
	t.Helper()
	historyRepo := repomocks.NewMockHistoryRepository(t)
	favoriteRepo := repomocks.NewMockFavoriteRepository(t)
	historyRepo.EXPECT().GetRecent(mock.Anything, mock.Anything, 0).Return(history, nil).Maybe()
	favoriteRepo.EXPECT().GetAll(mock.Anything).Return(favs, nil).Maybe()

	return usecase.NewSuggestURLBarUseCase(historyRepo, favoriteRepo, settings, catalog,
		usecase.WithClock(func() time.Time { return fixedNow }))
}

func byType(out *usecase.SuggestURLBarOutput, typ autocomplete.SuggestionType) []autocomplete.Suggestion {
	var res []autocomplete.Suggestion
	for _, s := range out.Suggestions {
		if s.Type == typ {
			res = append(res, s)
		}
	}
	return res
}

func TestSuggestURLBar_SynthesizesVirtualSearchRoot(t *testing.T) {
	ctx := testContext()
	history := []*entity.HistoryEntry{
		{URL: "https://www.google.com/search?q=x", Title: "x - Google Search", VisitCount: 6, LastVisited: fixedNow.Add(-time.Hour)},
	}
	uc := newSuggestUC(t, history, nil, allSettings(), &fakeCatalog{})

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "goog"})

	hist := byType(out, autocomplete.TypeHistory)
	require.Len(t, hist, 2)
	assert.Equal(t, "https://www.google.com", hist[0].Location)
	assert.Equal(t, autocomplete.Navigate("https://www.google.com"), hist[0].Action)
	assert.Equal(t, "https://www.google.com/search?q=x", hist[1].Location)
	assert.Equal(t, "le.com", out.Completion)
	assert.Equal(t, "google.com", out.CompletionURL)
}

func TestSuggestURLBar_PoolOrderAndGating(t *testing.T) {
	ctx := testContext()
	history := []*entity.HistoryEntry{
		{URL: "https://example.com/", Title: "Example", VisitCount: 3, LastVisited: fixedNow},
	}
	favs := []*entity.Favorite{
		{URL: "https://example.org/", Title: "Example Org", Tags: []string{entity.BookmarkTag}},
	}
	catalog := &fakeCatalog{
		about:    []string{"about:example", "about:blank"},
		topSites: []string{"example.net", "unrelated.org"},
	}
	uc := newSuggestUC(t, history, favs, allSettings(), catalog)

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{
		Input:          "example",
		ActiveFrameKey: 1,
		Frames: []usecase.OpenFrame{
			{Key: 1, Location: "https://example.com/active"},
			{Key: 2, Location: "https://example.com/", Title: "Example tab"},
			{Key: 3, Location: "about:example"},
		},
		SearchResults: []string{"example domain", "unrelated"},
		SearchURL:     "https://search.test/?q={searchTerms}",
	})

	var types []autocomplete.SuggestionType
	for _, s := range out.Suggestions {
		types = append(types, s.Type)
	}
	assert.Equal(t, []autocomplete.SuggestionType{
		autocomplete.TypeHistory,
		autocomplete.TypeBookmark,
		autocomplete.TypeAboutPage,
		autocomplete.TypeTab,
		autocomplete.TypeSearch,
		autocomplete.TypeTopSite,
	}, types)

	tab := byType(out, autocomplete.TypeTab)[0]
	assert.Equal(t, "https://example.com/", tab.Location, "tab duplicates history and is still listed")
	assert.Equal(t, autocomplete.ActivateFrame(2), tab.Action)

	search := byType(out, autocomplete.TypeSearch)[0]
	assert.Equal(t, autocomplete.Navigate("https://search.test/?q=example%20domain"), search.Action)

	assert.Equal(t, "example.net", byType(out, autocomplete.TypeTopSite)[0].Location)
}

func TestSuggestURLBar_SettingsDisablePools(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)
	favoriteRepo := repomocks.NewMockFavoriteRepository(t)
	uc := usecase.NewSuggestURLBarUseCase(historyRepo, favoriteRepo, portmocks.NewSettings(), &fakeCatalog{},
		usecase.WithClock(func() time.Time { return fixedNow }))

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{
		Input:         "x",
		Frames:        []usecase.OpenFrame{{Key: 5, Location: "https://x.com"}},
		SearchResults: []string{"x"},
	})

	// repositories are never queried when both site pools are off
	assert.Empty(t, out.Suggestions)
}

func TestSuggestURLBar_EmptyInputGatesSitePools(t *testing.T) {
	ctx := testContext()
	history := []*entity.HistoryEntry{{URL: "https://a.com/", VisitCount: 1, LastVisited: fixedNow}}
	favs := []*entity.Favorite{{URL: "https://b.com/", Tags: []string{entity.BookmarkTag}}}
	uc := newSuggestUC(t, history, favs, allSettings(), &fakeCatalog{topSites: []string{"a.com"}})

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "", SearchResults: []string{"a"}})

	assert.Empty(t, byType(out, autocomplete.TypeHistory))
	assert.Empty(t, byType(out, autocomplete.TypeBookmark))
	assert.Empty(t, byType(out, autocomplete.TypeSearch))
	assert.Len(t, byType(out, autocomplete.TypeTopSite), 1)
	assert.Empty(t, out.Completion)
}

func TestSuggestURLBar_RespectsLimitsAndUniqueness(t *testing.T) {
	ctx := testContext()
	var history []*entity.HistoryEntry
	var favs []*entity.Favorite
	for i := range 40 {
		loc := fmt.Sprintf("https://site%d.test/page", i%9)
		history = append(history, &entity.HistoryEntry{URL: loc, VisitCount: int64(i), LastVisited: fixedNow})
		favs = append(favs, &entity.Favorite{URL: strings.ToUpper(loc), Tags: []string{entity.BookmarkTag}})
	}
	limits := usecase.URLBarLimits{History: 4, Bookmarks: 3, AboutPages: 1, Tabs: 1, Search: 1, TopSites: 2}

	historyRepo := repomocks.NewMockHistoryRepository(t)
	favoriteRepo := repomocks.NewMockFavoriteRepository(t)
	historyRepo.EXPECT().GetRecent(mock.Anything, mock.Anything, 0).Return(history, nil)
	favoriteRepo.EXPECT().GetAll(mock.Anything).Return(favs, nil)
	uc := usecase.NewSuggestURLBarUseCase(historyRepo, favoriteRepo, allSettings(), &fakeCatalog{},
		usecase.WithLimits(limits), usecase.WithClock(func() time.Time { return fixedNow }))

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "site"})

	assert.LessOrEqual(t, len(byType(out, autocomplete.TypeHistory)), 4)
	assert.LessOrEqual(t, len(byType(out, autocomplete.TypeBookmark)), 3)

	seen := map[string]bool{}
	for _, s := range out.Suggestions {
		key := strings.ToLower(s.Location)
		require.False(t, seen[key], "duplicate location %s", key)
		seen[key] = true
	}
}

func TestSuggestURLBar_ProviderShortcutStrippedForSearchPool(t *testing.T) {
	ctx := testContext()
	provider := &entity.SearchProvider{Name: "YouTube", Shortcut: "yt", SearchURL: "https://yt.test/results?q={searchTerms}"}
	uc := newSuggestUC(t, nil, nil, allSettings(), &fakeCatalog{})

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{
		Input:         "yt cat",
		Provider:      provider,
		SearchResults: []string{"cat videos", "dog videos"},
		SearchURL:     "https://default.test/?q={searchTerms}",
	})

	search := byType(out, autocomplete.TypeSearch)
	require.Len(t, search, 1)
	assert.Equal(t, "cat videos", search[0].Location)
	assert.Equal(t, "https://yt.test/results?q=cat%20videos", search[0].Action.URL)
}

func TestSuggestURLBar_RepositoryErrorsDegrade(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)
	favoriteRepo := repomocks.NewMockFavoriteRepository(t)
	historyRepo.EXPECT().GetRecent(mock.Anything, mock.Anything, 0).Return(nil, errors.New("db down"))
	favoriteRepo.EXPECT().GetAll(mock.Anything).Return(nil, errors.New("db down"))

	uc := usecase.NewSuggestURLBarUseCase(historyRepo, favoriteRepo, allSettings(),
		&fakeCatalog{topSites: []string{"news.test"}})

	out := uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "news"})
	require.Len(t, out.Suggestions, 1)
	assert.Equal(t, autocomplete.TypeTopSite, out.Suggestions[0].Type)
}

func TestSuggestURLBar_CachesSitesUntilInvalidated(t *testing.T) {
	ctx := testContext()
	historyRepo := repomocks.NewMockHistoryRepository(t)
	historyRepo.EXPECT().GetRecent(mock.Anything, mock.Anything, 0).Return([]*entity.HistoryEntry{}, nil).Times(2)

	settings := portmocks.NewSettings(port.SettingHistorySuggestions)
	uc := usecase.NewSuggestURLBarUseCase(historyRepo, nil, settings, nil,
		usecase.WithClock(func() time.Time { return fixedNow }))

	uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "a"})
	uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "ab"})
	uc.Invalidate()
	uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "abc"})
}

func TestSuggestURLBar_CaseFoldedInputCompletesWithoutPanic(t *testing.T) {
	ctx := testContext()
	history := []*entity.HistoryEntry{
		{URL: "http://ka", Title: "ka", VisitCount: 1, LastVisited: fixedNow.Add(-time.Hour)},
	}
	uc := newSuggestUC(t, history, nil, allSettings(), &fakeCatalog{})

	var out *usecase.SuggestURLBarOutput
	require.NotPanics(t, func() {
		out = uc.Execute(ctx, usecase.SuggestURLBarInput{Input: "K"})
	})
	require.NotNil(t, out)
}
