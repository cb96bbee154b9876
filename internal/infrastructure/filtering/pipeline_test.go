package filtering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/application/port/mocks"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
)

type frameMap map[int]string

func (f frameMap) MainFrameURL(tabID int) (string, bool) {
	u, ok := f[tabID]
	return u, ok
}

func newPipeline(t *testing.T, customRules string, frames port.MainFrameResolver) (*filtering.Pipeline, *filtering.Manager, *fakeLoader) {
	t.Helper()
	loader := newFakeLoader()
	m := newTestManager(t, loader, mocks.NewSettings(port.SettingAdblockEnabled, port.SettingSafeBrowsingEnabled), time.Second)
	require.NoError(t, m.Init(testContext()))
	if customRules != "" {
		m.ApplyCustomRulesNow(testContext(), customRules)
	}
	return filtering.NewPipeline(testContext(), m, frames), m, loader
}

func TestPipeline_ThirdPartyMatchIsCancelled(t *testing.T) {
	p, _, _ := newPipeline(t, "||ads.example.net^\n||disqus.com^\n||a.disquscdn.com^", nil)

	d := p.Evaluate(filtering.RequestDetails{
		URL:           "https://ads.example.net/banner.js",
		ResourceType:  filtering.ResourceTypeScript,
		FirstPartyURL: "https://example.com/article",
	})
	assert.Equal(t, filtering.Decision{Cancel: true, ResourceName: filtering.CustomFiltersUUID}, d)

	for _, u := range []string{"https://disqus.com/embed.js", "https://a.disquscdn.com/x.js", "https://c.disqus.com/count.js"} {
		d = p.Evaluate(filtering.RequestDetails{
			URL:           u,
			ResourceType:  filtering.ResourceTypeScript,
			FirstPartyURL: "https://example.com/article",
		})
		assert.False(t, d.Cancel, u)
	}
}

func TestPipeline_PassThroughCases(t *testing.T) {
	p, _, _ := newPipeline(t, "||ads.example.net^\n||example.com^", frameMap{1: "file:///home/x.html"})

	tests := []struct {
		name    string
		details filtering.RequestDetails
	}{
		{
			name:    "missing first party",
			details: filtering.RequestDetails{URL: "https://ads.example.net/a.js", ResourceType: filtering.ResourceTypeScript, TabID: 9},
		},
		{
			name:    "non http first party",
			details: filtering.RequestDetails{URL: "https://ads.example.net/a.js", ResourceType: filtering.ResourceTypeScript, TabID: 1},
		},
		{
			name: "first party request",
			details: filtering.RequestDetails{
				URL: "https://cdn.example.com/a.js", ResourceType: filtering.ResourceTypeScript,
				FirstPartyURL: "https://example.com/",
			},
		},
		{
			name: "unmapped resource type",
			details: filtering.RequestDetails{
				URL: "https://ads.example.net/f.woff", ResourceType: "font",
				FirstPartyURL: "https://example.com/",
			},
		},
		{
			name: "main frame without main-frame resource",
			details: filtering.RequestDetails{
				URL: "https://ads.example.net/", ResourceType: filtering.ResourceTypeMainFrame,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, p.Evaluate(tt.details).Cancel)
		})
	}
}

func TestPipeline_ResolvesFirstPartyFromTab(t *testing.T) {
	p, _, _ := newPipeline(t, "||ads.example.net^", frameMap{3: "https://news.test/"})

	d := p.Evaluate(filtering.RequestDetails{
		URL:          "https://ads.example.net/a.png",
		ResourceType: filtering.ResourceTypeImage,
		TabID:        3,
	})
	assert.True(t, d.Cancel)
}

func TestPipeline_SafeBrowsingChecksMainFrame(t *testing.T) {
	p, _, loader := newPipeline(t, "", nil)
	loader.deliver(t, filtering.ResourceSafeBrowsing, "||phish.test^")

	d := p.Evaluate(filtering.RequestDetails{
		URL:          "https://phish.test/login",
		ResourceType: filtering.ResourceTypeMainFrame,
	})
	assert.Equal(t, filtering.Decision{Cancel: true, ResourceName: filtering.ResourceSafeBrowsing}, d)
}

func TestPipeline_FirstActiveResourceWins(t *testing.T) {
	p, _, loader := newPipeline(t, "", nil)
	loader.deliver(t, filtering.ResourceAdblock, "||ads.example.net^")
	loader.deliver(t, filtering.ResourceSafeBrowsing, "||ads.example.net^")

	d := p.Evaluate(filtering.RequestDetails{
		URL:           "https://ads.example.net/a.js",
		ResourceType:  filtering.ResourceTypeScript,
		FirstPartyURL: "https://example.com/",
	})
	assert.Equal(t, filtering.ResourceAdblock, d.ResourceName)
}

func TestFilterOptionFor(t *testing.T) {
	for _, rt := range []string{
		filtering.ResourceTypeMainFrame, filtering.ResourceTypeSubFrame, filtering.ResourceTypeStylesheet,
		filtering.ResourceTypeScript, filtering.ResourceTypeImage, filtering.ResourceTypeObject,
		filtering.ResourceTypeXHR, filtering.ResourceTypeOther,
	} {
		_, ok := filtering.FilterOptionFor(rt)
		assert.True(t, ok, rt)
	}
	_, ok := filtering.FilterOptionFor("media")
	assert.False(t, ok)
}
