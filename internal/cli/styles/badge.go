package styles

import (
	"fmt"
	"time"

	"github.com/bnema/wayfinder/internal/domain/autocomplete"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
)

// VisitBadge renders a visit count badge.
func (t *Theme) VisitBadge(count int64) string {
	text := fmt.Sprintf("%d visits", count)
	if count == 1 {
		text = "1 visit"
	}
	return t.BadgeMuted.Render(text)
}

// TimeBadge renders a relative time badge.
func (t *Theme) TimeBadge(tm time.Time) string {
	return t.BadgeMuted.Render(RelativeTime(tm, time.Now()))
}

// SuggestionBadge renders the pool a suggestion came from.
func (t *Theme) SuggestionBadge(typ autocomplete.SuggestionType) string {
	switch typ {
	case autocomplete.TypeTab, autocomplete.TypeBookmark:
		return t.Badge.Render(string(typ))
	default:
		return t.BadgeMuted.Render(string(typ))
	}
}

// StateBadge renders a filter resource state.
func (t *Theme) StateBadge(state filtering.ResourceState) string {
	switch state {
	case filtering.StateActive:
		return t.SuccessStyle.Render(string(state))
	case filtering.StateDisabled:
		return t.Subtle.Render(string(state))
	default:
		return t.WarningStyle.Render(string(state))
	}
}

// DecisionBadge renders a request verdict.
func (t *Theme) DecisionBadge(d filtering.Decision) string {
	if d.Cancel {
		return t.ErrorStyle.Bold(true).Render("BLOCK") + " " + t.Subtle.Render(d.ResourceName)
	}
	return t.SuccessStyle.Bold(true).Render("ALLOW")
}

// RelativeTime formats tm relative to now.
func RelativeTime(tm, now time.Time) string {
	if tm.IsZero() {
		return "never"
	}
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(diff.Hours()/(24*7)))
	default:
		return tm.Format("2006-01-02")
	}
}
