package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{14 * 24 * time.Hour, "2w ago"},
		{90 * 24 * time.Hour, "2025-12-10"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
		})
	}
	assert.Equal(t, "never", RelativeTime(time.Time{}, now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestTables_ContainRows(t *testing.T) {
	theme := NewTheme()

	out := theme.ResourceTable([]filtering.ResourceStatus{{Name: "adblock", State: filtering.StateActive, Version: 1, Rules: 12}})
	assert.Contains(t, out, "adblock")
	assert.Contains(t, out, "12")

	out = theme.BookmarkTable([]*entity.Favorite{{ID: 3, URL: "https://go.dev", Title: "Go", Tags: []string{"bookmark", "lang"}}})
	assert.Contains(t, out, "https://go.dev")
	assert.Contains(t, out, "bookmark, lang")
}

func TestDecisionBadge(t *testing.T) {
	theme := NewTheme()
	assert.Contains(t, theme.DecisionBadge(filtering.Decision{Cancel: true, ResourceName: "adblock"}), "BLOCK")
	assert.Contains(t, theme.DecisionBadge(filtering.Decision{}), "ALLOW")
}
