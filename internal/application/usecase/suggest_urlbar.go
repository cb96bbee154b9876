package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/autocomplete"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/logging"
)

const (
	sitesHistoryLimit = 500
	sitesCacheTTL     = 2 * time.Second
)

// URLBarLimits caps each suggestion pool.
type URLBarLimits struct {
	History    int `json:"history"`
	Bookmarks  int `json:"bookmarks"`
	AboutPages int `json:"about_pages"`
	Tabs       int `json:"tabs"`
	Search     int `json:"search"`
	TopSites   int `json:"top_sites"`
}

// DefaultURLBarLimits returns the stock pool sizes.
func DefaultURLBarLimits() URLBarLimits {
	return URLBarLimits{
		History:    3,
		Bookmarks:  2,
		AboutPages: 2,
		Tabs:       2,
		Search:     3,
		TopSites:   3,
	}
}

// OpenFrame is an open tab as seen by the suggestion engine.
type OpenFrame struct {
	Key      int    `json:"key"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// SuggestURLBarInput is everything a keystroke's suggestion pass needs.
type SuggestURLBarInput struct {
	Input          string
	ActiveFrameKey int
	Frames         []OpenFrame
	// SearchResults are the remote suggestions attached to the active frame.
	SearchResults []string
	// Provider is the frame's activated provider, nil when none.
	Provider *entity.SearchProvider
	// SearchURL is the template search results navigate through.
	SearchURL string
}

// SuggestURLBarOutput is the ordered suggestion list plus inline completion.
type SuggestURLBarOutput struct {
	Suggestions   []autocomplete.Suggestion `json:"suggestions"`
	Completion    string                    `json:"completion,omitempty"`
	CompletionURL string                    `json:"completion_url,omitempty"`
}

// SuggestURLBarUseCase merges history, bookmarks, about pages, open tabs,
// remote search suggestions and top sites into one URL-bar list.
type SuggestURLBarUseCase struct {
	historyRepo  repository.HistoryRepository
	favoriteRepo repository.FavoriteRepository
	settings     port.Settings
	catalog      port.Catalog
	limits       URLBarLimits
	decay        time.Duration
	now          func() time.Time

	cacheMu     sync.Mutex
	sitesCache  []autocomplete.Candidate
	sitesCached time.Time
}

// SuggestOption configures a SuggestURLBarUseCase.
type SuggestOption func(*SuggestURLBarUseCase)

// WithLimits overrides the pool sizes.
func WithLimits(l URLBarLimits) SuggestOption {
	return func(uc *SuggestURLBarUseCase) { uc.limits = l }
}

// WithAgeDecay overrides the access-count decay constant.
func WithAgeDecay(d time.Duration) SuggestOption {
	return func(uc *SuggestURLBarUseCase) {
		if d > 0 {
			uc.decay = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SuggestOption {
	return func(uc *SuggestURLBarUseCase) { uc.now = now }
}

// NewSuggestURLBarUseCase creates the URL-bar suggestion use case.
// Either repository may be nil, in which case its pool is empty.
func NewSuggestURLBarUseCase(
	historyRepo repository.HistoryRepository,
	favoriteRepo repository.FavoriteRepository,
	settings port.Settings,
	catalog port.Catalog,
	opts ...SuggestOption,
) *SuggestURLBarUseCase {
	uc := &SuggestURLBarUseCase{
		historyRepo:  historyRepo,
		favoriteRepo: favoriteRepo,
		settings:     settings,
		catalog:      catalog,
		limits:       DefaultURLBarLimits(),
		decay:        autocomplete.DefaultAgeDecay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Invalidate drops the cached site list so the next call reloads it.
func (uc *SuggestURLBarUseCase) Invalidate() {
	uc.cacheMu.Lock()
	uc.sitesCache = nil
	uc.sitesCached = time.Time{}
	uc.cacheMu.Unlock()
}

// Execute builds the suggestion list for input.
func (uc *SuggestURLBarUseCase) Execute(ctx context.Context, input SuggestURLBarInput) *SuggestURLBarOutput {
	log := logging.FromContext(ctx)

	now := uc.now()
	q := autocomplete.NewQuery(input.Input, input.Provider)
	agg := autocomplete.NewAggregator(autocomplete.NewRanker(q, now, uc.decay))

	var sites []autocomplete.Candidate
	if uc.enabled(port.SettingHistorySuggestions) || uc.enabled(port.SettingBookmarkSuggestions) {
		sites = uc.loadSites(ctx)
	}

	var completionURLs []string

	if uc.enabled(port.SettingHistorySuggestions) {
		historyFilter := autocomplete.HistoryFilter(q)
		history := autocomplete.WithVirtualHistory(filterCandidates(sites, historyFilter), now)
		for _, s := range agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeHistory,
			Candidates: history,
			Max:        uc.limits.History,
			Filter:     historyFilter,
			Ranked:     true,
		}) {
			completionURLs = append(completionURLs, s.Location)
		}
	}

	if uc.enabled(port.SettingBookmarkSuggestions) {
		for _, s := range agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeBookmark,
			Candidates: sites,
			Max:        uc.limits.Bookmarks,
			Filter:     autocomplete.BookmarkFilter(q),
			Ranked:     true,
		}) {
			completionURLs = append(completionURLs, s.Location)
		}
	}

	if uc.catalog != nil {
		agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeAboutPage,
			Candidates: stringCandidates(uc.catalog.AboutPages()),
			Max:        uc.limits.AboutPages,
			Filter:     autocomplete.LocationFilter(q),
		})
	}

	if uc.enabled(port.SettingOpenedTabSuggestions) {
		var isInternal func(string) bool
		if uc.catalog != nil {
			isInternal = uc.catalog.IsInternalURL
		} else {
			isInternal = url.IsInternal
		}
		agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeTab,
			Candidates: frameCandidates(input.Frames),
			Max:        uc.limits.Tabs,
			Filter:     autocomplete.TabFilter(q, input.ActiveFrameKey, isInternal),
			Ranked:     true,
			Action: func(c autocomplete.Candidate) autocomplete.Action {
				return autocomplete.ActivateFrame(c.FrameKey)
			},
		})
	}

	if uc.enabled(port.SettingOfferSuggestions) && len(input.SearchResults) > 0 {
		searchURL := input.SearchURL
		if input.Provider != nil && input.Provider.SearchURL != "" {
			searchURL = input.Provider.SearchURL
		}
		agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeSearch,
			Candidates: stringCandidates(input.SearchResults),
			Max:        uc.limits.Search,
			Filter:     autocomplete.SearchFilter(q),
			Action: func(c autocomplete.Candidate) autocomplete.Action {
				return autocomplete.Navigate(url.BuildSearchURL(searchURL, c.Location))
			},
		})
	}

	if uc.catalog != nil {
		agg.Add(autocomplete.Pool{
			Type:       autocomplete.TypeTopSite,
			Candidates: stringCandidates(uc.catalog.TopSites()),
			Max:        uc.limits.TopSites,
			Filter:     autocomplete.LocationFilter(q),
		})
	}

	out := &SuggestURLBarOutput{Suggestions: agg.Suggestions()}
	if out.Suggestions == nil {
		out.Suggestions = []autocomplete.Suggestion{}
	}
	if !strings.Contains(input.Input, " ") {
		if suffix, matched, ok := autocomplete.BestURLCompletion(input.Input, completionURLs); ok {
			out.Completion = suffix
			out.CompletionURL = matched
		}
	}

	log.Debug().
		Str("input", input.Input).
		Int("suggestions", len(out.Suggestions)).
		Str("completion", out.CompletionURL).
		Msg("urlbar suggestions computed")

	return out
}

func (uc *SuggestURLBarUseCase) enabled(key string) bool {
	return uc.settings != nil && uc.settings.Bool(key)
}

// loadSites returns history entries merged with bookmarks, keyed by URL.
// A bookmark that was never visited has no last-accessed time and so only
// reaches the bookmark pool.
func (uc *SuggestURLBarUseCase) loadSites(ctx context.Context) []autocomplete.Candidate {
	log := logging.FromContext(ctx)

	uc.cacheMu.Lock()
	if uc.sitesCache != nil && uc.now().Sub(uc.sitesCached) < sitesCacheTTL {
		cached := uc.sitesCache
		uc.cacheMu.Unlock()
		return cached
	}
	uc.cacheMu.Unlock()

	var sites []autocomplete.Candidate
	index := make(map[string]int)

	if uc.historyRepo != nil {
		entries, err := uc.historyRepo.GetRecent(ctx, sitesHistoryLimit, 0)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load history for suggestions")
		}
		for _, e := range entries {
			if e == nil || e.URL == "" {
				continue
			}
			if _, dup := index[e.URL]; dup {
				continue
			}
			index[e.URL] = len(sites)
			sites = append(sites, autocomplete.Candidate{
				Title:        e.Title,
				Location:     e.URL,
				Count:        e.VisitCount,
				LastAccessed: e.LastVisited,
			})
		}
	}

	if uc.favoriteRepo != nil {
		favs, err := uc.favoriteRepo.GetAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load favorites for suggestions")
		}
		for _, f := range favs {
			if f == nil || f.URL == "" {
				continue
			}
			tags := f.Tags
			if !f.HasTag(entity.BookmarkTag) {
				tags = append(append([]string(nil), tags...), entity.BookmarkTag)
			}
			if i, ok := index[f.URL]; ok {
				sites[i].Tags = tags
				if sites[i].Title == "" {
					sites[i].Title = f.Title
				}
				continue
			}
			index[f.URL] = len(sites)
			sites = append(sites, autocomplete.Candidate{
				Title:    f.Title,
				Location: f.URL,
				Tags:     tags,
			})
		}
	}

	if sites == nil {
		sites = []autocomplete.Candidate{}
	}

	uc.cacheMu.Lock()
	uc.sitesCache = sites
	uc.sitesCached = uc.now()
	uc.cacheMu.Unlock()
	return sites
}

func filterCandidates(in []autocomplete.Candidate, keep autocomplete.Filter) []autocomplete.Candidate {
	out := make([]autocomplete.Candidate, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func stringCandidates(values []string) []autocomplete.Candidate {
	out := make([]autocomplete.Candidate, 0, len(values))
	for _, v := range values {
		out = append(out, autocomplete.Candidate{Title: v, Location: v})
	}
	return out
}

func frameCandidates(frames []OpenFrame) []autocomplete.Candidate {
	out := make([]autocomplete.Candidate, 0, len(frames))
	for _, f := range frames {
		out = append(out, autocomplete.Candidate{
			Title:    f.Title,
			Location: f.Location,
			FrameKey: f.Key,
		})
	}
	return out
}
