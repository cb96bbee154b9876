package adblock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `[Adblock Plus 2.0]
! Title: sample
||ads.example.net^
||tracker.test^$third-party
||cdn.example.org/ads/*$script,image
/banner/*/img^
|https://exact.test/path|
@@||ads.example.net/allowed^
example.com##.ad-banner
||img.test^$domain=news.test|~sports.news.test
||style.test^$~stylesheet
/ad[0-9]+\.js/
||bad.test^$csp=script-src
`

func newSampleClient(t *testing.T) *Client {
	t.Helper()
	c := New()
	res := c.Parse(sampleList)
	assert.Equal(t, 9, res.Added)
	assert.Equal(t, 2, res.Skipped, "cosmetic and csp rules are skipped")
	return c
}

func TestHostKey(t *testing.T) {
	assert.Equal(t, "com.example.ads.", hostKey("ads.example.com"))
	assert.Equal(t, "com.example.", hostKey("Example.COM"))
	assert.Equal(t, "", hostKey(""))
}

func TestClient_HostAnchoredRules(t *testing.T) {
	c := newSampleClient(t)

	assert.True(t, c.Matches("https://ads.example.net/x.js", OptionScript, "example.com"))
	assert.True(t, c.Matches("https://sub.ads.example.net/x.js", OptionScript, "example.com"))
	assert.False(t, c.Matches("https://badads.example.net/x.js", OptionScript, "example.com"))
	assert.False(t, c.Matches("https://example.net/ads.example.net", OptionScript, "example.com"))
}

func TestClient_ExceptionWins(t *testing.T) {
	c := newSampleClient(t)
	assert.False(t, c.Matches("https://ads.example.net/allowed/thing", OptionImage, "example.com"))
}

func TestClient_ThirdPartyOption(t *testing.T) {
	c := newSampleClient(t)

	assert.True(t, c.Matches("https://tracker.test/p.gif", OptionImage, "example.com"))
	assert.False(t, c.Matches("https://tracker.test/p.gif", OptionImage, "tracker.test"))
	assert.False(t, c.Matches("https://cdn.tracker.test/p.gif", OptionImage, "tracker.test"))
	assert.True(t, c.Matches("https://tracker.test/p.gif", OptionImage, "www.tracker.test"), "a parent of the page host is third party")
}

func TestClient_TypeOptions(t *testing.T) {
	c := newSampleClient(t)

	assert.True(t, c.Matches("https://cdn.example.org/ads/1.js", OptionScript, "a.com"))
	assert.True(t, c.Matches("https://cdn.example.org/ads/1.png", OptionImage, "a.com"))
	assert.False(t, c.Matches("https://cdn.example.org/ads/1.css", OptionStylesheet, "a.com"))

	assert.True(t, c.Matches("https://style.test/a.js", OptionScript, "a.com"))
	assert.False(t, c.Matches("https://style.test/a.css", OptionStylesheet, "a.com"))
}

func TestClient_DomainOption(t *testing.T) {
	c := newSampleClient(t)

	assert.True(t, c.Matches("https://img.test/a.png", OptionImage, "news.test"))
	assert.True(t, c.Matches("https://img.test/a.png", OptionImage, "www.news.test"))
	assert.False(t, c.Matches("https://img.test/a.png", OptionImage, "sports.news.test"))
	assert.False(t, c.Matches("https://img.test/a.png", OptionImage, "other.test"))
}

func TestClient_GenericPatterns(t *testing.T) {
	c := newSampleClient(t)

	assert.True(t, c.Matches("https://site.test/banner/top/img?x=1", OptionImage, "site.test"))
	assert.True(t, c.Matches("https://site.test/banner/top/img", OptionImage, "site.test"), "^ matches end of address")
	assert.False(t, c.Matches("https://site.test/banner/top/imgs", OptionImage, "site.test"))

	assert.True(t, c.Matches("https://exact.test/path", OptionDocument, "exact.test"))
	assert.False(t, c.Matches("https://exact.test/path/more", OptionDocument, "exact.test"))

	assert.True(t, c.Matches("https://x.test/static/ad42.js", OptionScript, "x.test"))
	assert.False(t, c.Matches("https://x.test/static/add.js", OptionScript, "x.test"))
}

func TestClient_CaseInsensitiveByDefault(t *testing.T) {
	c := New()
	require.NoError(t, c.AddRule("/TrackPixel/"))
	require.NoError(t, c.AddRule("/CaseOnly/$match-case"))

	assert.True(t, c.Matches("https://a.test/trackpixel/", OptionImage, "b.test"))
	assert.True(t, c.Matches("https://a.test/CaseOnly/", OptionImage, "b.test"))
	assert.False(t, c.Matches("https://a.test/caseonly/", OptionImage, "b.test"))
}

func TestParseRule_Errors(t *testing.T) {
	_, err := ParseRule("   ")
	assert.ErrorIs(t, err, ErrEmptyRule)
	_, err = ParseRule("! comment")
	assert.ErrorIs(t, err, ErrEmptyRule)
	_, err = ParseRule("example.com##.ad")
	assert.ErrorIs(t, err, ErrCosmeticRule)
	_, err = ParseRule("||a.test^$redirect=noop.js")
	assert.ErrorIs(t, err, ErrUnsupportedOption)
	_, err = ParseRule("/ad(/")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestParseRule_AnchorHost(t *testing.T) {
	tests := []struct {
		line string
		host string
	}{
		{"||ads.example.com^", "ads.example.com"},
		{"||ads.example.com/path", "ads.example.com"},
		{"||ADS.example.com", "ads.example.com"},
		{"||ads.*.com^", ""},
		{"||ads.example.com:8080^", "ads.example.com"},
		{"/banner/", ""},
		{"|https://a.test", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r, err := ParseRule(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.host, r.Host())
		})
	}
}

func TestClient_ReplaceAndCount(t *testing.T) {
	c := newSampleClient(t)
	assert.Equal(t, 9, c.RuleCount())
	assert.Equal(t, 2, c.Skipped())

	res := c.Replace("||other.test^\nexample.com##.ad\n")
	assert.Equal(t, ParseResult{Added: 1, Skipped: 1}, res)
	assert.Equal(t, 1, c.RuleCount())
	assert.Equal(t, 1, c.Skipped())
	assert.False(t, c.Matches("https://ads.example.net/x.js", OptionScript, "example.com"))

	c.Replace("")
	assert.Zero(t, c.RuleCount())
	assert.False(t, c.Matches("https://ads.example.net/x.js", OptionScript, "example.com"))
}

func TestClient_SnapshotRoundTripPreservesMatching(t *testing.T) {
	c := newSampleClient(t)
	data, err := c.Serialize()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Deserialize(data))
	assert.Equal(t, c.RuleCount(), restored.RuleCount())
	assert.True(t, restored.Matches("https://ads.example.net/x.js", OptionScript, "example.com"))
	assert.False(t, restored.Matches("https://ads.example.net/allowed/x", OptionScript, "example.com"))
}

func TestClient_LoadAcceptsTextOrSnapshot(t *testing.T) {
	c := New()
	res, err := c.Load([]byte("||a.test^\r\n||b.test^\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ParseResult{Added: 2}, res)

	snap, err := c.Serialize()
	require.NoError(t, err)

	other := New()
	require.NoError(t, other.AddRule("||stale.test^"))
	res, err = other.Load(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.False(t, other.Matches("https://stale.test/", OptionScript, "x.test"))
}

func TestClient_DeserializeRejectsGarbage(t *testing.T) {
	c := New()
	err := c.Deserialize([]byte("not a snapshot"))
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))

	err = c.Deserialize(append([]byte("WFAB"), 0xc1))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestClient_ConcurrentMatchAndParse(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 50 {
				_ = c.AddRule(fmt.Sprintf("||h%d-%d.test^", i, j))
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				c.Matches("https://h0-1.test/x", OptionScript, "a.test")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, c.RuleCount())
	assert.True(t, c.Matches("https://h0-1.test/x", OptionScript, "a.test"))
}

func TestClient_ReloadNeverExposesEmptyMatcher(t *testing.T) {
	var b strings.Builder
	for i := range 2000 {
		fmt.Fprintf(&b, "||filler%d.test^\n", i)
	}
	b.WriteString("||ads.example.net^\n")
	list := []byte(b.String())

	c := New()
	_, err := c.Load(list)
	require.NoError(t, err)
	snap, err := c.Serialize()
	require.NoError(t, err)

	var (
		stop   atomic.Bool
		misses atomic.Int64
		wg     sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			if !c.Matches("https://ads.example.net/a.js", OptionScript, "example.com") {
				misses.Add(1)
			}
		}
	}()

	for i := range 10 {
		data := list
		if i%2 == 1 {
			data = snap
		}
		_, err := c.Load(data)
		require.NoError(t, err)
		c.Replace(string(list))
	}
	stop.Store(true)
	wg.Wait()

	assert.Zero(t, misses.Load(), "a reload must swap rules in one step")
	assert.Equal(t, 2001, c.RuleCount())
}

func TestFilterOptionString(t *testing.T) {
	assert.Equal(t, "none", OptionNone.String())
	assert.Equal(t, "script|image", (OptionScript | OptionImage).String())
	opt, ok := ParseOption("XHR")
	require.True(t, ok)
	assert.Equal(t, OptionXMLHTTPRequest, opt)
}
