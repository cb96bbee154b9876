package autocomplete

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

func locations(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.Location
	}
	return out
}

func TestVirtualHistory_SynthesizesSearchRoot(t *testing.T) {
	history := []Candidate{
		{Title: "x - Google Search", Location: "https://www.google.com/search?q=x", Count: 7, LastAccessed: testNow.Add(-time.Hour)},
		{Title: "y - Google Search", Location: "https://www.google.com/search?q=y", Count: 2, LastAccessed: testNow},
	}

	virtual := VirtualHistory(history, testNow)
	require.Len(t, virtual, 1)
	assert.Equal(t, "https://www.google.com", virtual[0].Location)
	assert.Equal(t, "www.google.com", virtual[0].Title)
	assert.Zero(t, virtual[0].Count)
	assert.Equal(t, testNow, virtual[0].LastAccessed)
}

func TestVirtualHistory_SkipsHostsWithRootVisit(t *testing.T) {
	history := []Candidate{
		{Location: "https://example.com/"},
		{Location: "https://example.com/a"},
		{Location: "not a url"},
	}
	assert.Empty(t, VirtualHistory(history, testNow))
}

func TestWithVirtualHistory_AppendsWithoutReplacing(t *testing.T) {
	history := []Candidate{
		{Location: "https://www.google.com/search?q=x", LastAccessed: testNow},
		{Location: "https://news.site/a", LastAccessed: testNow},
	}
	all := WithVirtualHistory(history, testNow)

	require.Len(t, all, 4)
	assert.Equal(t, history[0], all[0])
	assert.Equal(t, history[1], all[1])
	assert.Equal(t, "https://www.google.com", all[2].Location)
	assert.Equal(t, "https://news.site", all[3].Location)
}

func TestAggregator_GoogRanksVirtualRootFirst(t *testing.T) {
	q := NewQuery("goog", nil)
	history := WithVirtualHistory([]Candidate{
		{Title: "x", Location: "https://www.google.com/search?q=x", Count: 5, LastAccessed: testNow},
	}, testNow)

	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))
	got := agg.Add(Pool{Type: TypeHistory, Candidates: history, Max: 5, Filter: HistoryFilter(q), Ranked: true})

	assert.Equal(t, []string{"https://www.google.com", "https://www.google.com/search?q=x"}, locations(got))
}

func TestAggregator_CrossPoolDedupIsCaseInsensitive(t *testing.T) {
	q := NewQuery("exa", nil)
	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))

	agg.Add(Pool{
		Type:       TypeHistory,
		Candidates: []Candidate{{Location: "https://Example.com/", LastAccessed: testNow}},
		Max:        5,
		Filter:     HistoryFilter(q),
		Ranked:     true,
	})
	bookmarks := agg.Add(Pool{
		Type: TypeBookmark,
		Candidates: []Candidate{
			{Location: "https://example.com/", Tags: []string{entity.BookmarkTag}},
			{Location: "https://example.org/", Tags: []string{entity.BookmarkTag}},
		},
		Max:    5,
		Filter: BookmarkFilter(q),
		Ranked: true,
	})

	assert.Equal(t, []string{"https://example.org/"}, locations(bookmarks))
}

func TestAggregator_TabsAreNeverDeduplicated(t *testing.T) {
	q := NewQuery("exa", nil)
	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))

	agg.Add(Pool{
		Type:       TypeHistory,
		Candidates: []Candidate{{Location: "https://example.com/", LastAccessed: testNow}},
		Max:        5,
		Filter:     HistoryFilter(q),
	})
	tabs := agg.Add(Pool{
		Type: TypeTab,
		Candidates: []Candidate{
			{Location: "https://example.com/", FrameKey: 2},
			{Location: "https://example.com/", FrameKey: 3},
		},
		Max:    5,
		Filter: TabFilter(q, 1, nil),
		Ranked: true,
		Action: func(c Candidate) Action { return ActivateFrame(c.FrameKey) },
	})

	require.Len(t, tabs, 2)
	assert.Equal(t, ActivateFrame(2), tabs[0].Action)
	assert.Equal(t, ActivateFrame(3), tabs[1].Action)
}

func TestAggregator_NoDuplicateNonTabLocations(t *testing.T) {
	q := NewQuery("site", nil)
	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))

	var pool []Candidate
	for i := range 30 {
		loc := fmt.Sprintf("https://site%d.com/", i%7)
		if i%2 == 0 {
			loc = strings.ToUpper(loc)
		}
		pool = append(pool, Candidate{Location: loc, LastAccessed: testNow, Tags: []string{entity.BookmarkTag}, Count: int64(i)})
	}

	agg.Add(Pool{Type: TypeHistory, Candidates: pool, Max: 4, Filter: HistoryFilter(q), Ranked: true})
	agg.Add(Pool{Type: TypeBookmark, Candidates: pool, Max: 4, Filter: BookmarkFilter(q), Ranked: true})
	agg.Add(Pool{Type: TypeTopSite, Candidates: pool, Max: 10, Filter: LocationFilter(q)})

	seen := map[string]bool{}
	for _, s := range agg.Suggestions() {
		key := strings.ToLower(s.Location)
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
	assert.Len(t, seen, 7)
}

func TestAggregator_RespectsPoolMax(t *testing.T) {
	q := NewQuery("a", nil)
	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))

	var pool []Candidate
	for i := range 50 {
		pool = append(pool, Candidate{Location: fmt.Sprintf("https://a%d.com", i), LastAccessed: testNow})
	}

	for _, max := range []int{0, 1, 3} {
		got := agg.Add(Pool{Type: TypeHistory, Candidates: pool, Max: max, Filter: HistoryFilter(q)})
		assert.LessOrEqual(t, len(got), max)
	}
}

func TestAggregator_UnrankedPoolKeepsSourceOrder(t *testing.T) {
	q := NewQuery("o", nil)
	agg := NewAggregator(NewRanker(q, testNow, DefaultAgeDecay))

	got := agg.Add(Pool{
		Type: TypeTopSite,
		Candidates: []Candidate{
			{Location: "https://zoo.com"},
			{Location: "https://o.com"},
		},
		Max:    5,
		Filter: LocationFilter(q),
	})
	assert.Equal(t, []string{"https://zoo.com", "https://o.com"}, locations(got))
}

func TestFilters_EmptyInputGatesHistoryBookmarksSearch(t *testing.T) {
	q := NewQuery("", nil)
	c := Candidate{Title: "t", Location: "https://x.com", LastAccessed: testNow, Tags: []string{entity.BookmarkTag}}

	assert.False(t, HistoryFilter(q)(c))
	assert.False(t, BookmarkFilter(q)(c))
	assert.False(t, SearchFilter(q)(c))
	assert.True(t, LocationFilter(q)(c))
	assert.True(t, TabFilter(q, 0, nil)(Candidate{Location: "https://x.com", FrameKey: 1}))
}

func TestFilters_MissingFieldsAreNonMatches(t *testing.T) {
	q := NewQuery("x", nil)
	assert.False(t, HistoryFilter(q)(Candidate{Location: "https://x.com"}), "no last access")
	assert.False(t, BookmarkFilter(q)(Candidate{Location: "https://x.com"}), "no bookmark tag")
	assert.False(t, LocationFilter(q)(Candidate{Title: "x"}))
}

func TestTabFilter_ExcludesActiveAndInternal(t *testing.T) {
	q := NewQuery("ex", nil)
	isInternal := func(loc string) bool { return strings.HasPrefix(loc, "about:") }
	f := TabFilter(q, 1, isInternal)

	assert.False(t, f(Candidate{Location: "https://example.com", FrameKey: 1}))
	assert.False(t, f(Candidate{Location: "about:extensions", FrameKey: 2}))
	assert.True(t, f(Candidate{Location: "https://example.com", FrameKey: 2}))
}

func TestSearchFilter_StripsProviderShortcut(t *testing.T) {
	provider := &entity.SearchProvider{Name: "Google", Shortcut: "g"}
	q := NewQuery("g gola", provider)

	assert.Equal(t, "gola", q.SearchTerms())
	assert.True(t, SearchFilter(q)(Candidate{Location: "golang tutorial"}))
	assert.False(t, SearchFilter(q)(Candidate{Location: "rust"}))
}
