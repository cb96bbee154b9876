package autocomplete

import (
	"strings"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// Filter is a pool relevance predicate.
type Filter func(Candidate) bool

func containsInput(c Candidate, lower string) bool {
	return strings.Contains(strings.ToLower(c.Title), lower) ||
		strings.Contains(strings.ToLower(c.Location), lower)
}

// HistoryFilter keeps visited candidates whose title or location contains the input.
func HistoryFilter(q Query) Filter {
	return func(c Candidate) bool {
		if q.Empty() || c.LastAccessed.IsZero() {
			return false
		}
		return containsInput(c, q.Lower)
	}
}

// BookmarkFilter keeps bookmark-tagged candidates matching the input.
func BookmarkFilter(q Query) Filter {
	return func(c Candidate) bool {
		if q.Empty() || !c.HasTag(entity.BookmarkTag) {
			return false
		}
		return containsInput(c, q.Lower)
	}
}

// LocationFilter keeps candidates whose location contains the input. It
// serves the about-page and top-site pools.
func LocationFilter(q Query) Filter {
	return func(c Candidate) bool {
		return c.Location != "" && strings.Contains(strings.ToLower(c.Location), q.Lower)
	}
}

// TabFilter keeps open frames other than the active one and internal pages.
func TabFilter(q Query, activeFrameKey int, isInternal func(string) bool) Filter {
	return func(c Candidate) bool {
		if c.FrameKey == activeFrameKey {
			return false
		}
		if isInternal != nil && isInternal(c.Location) {
			return false
		}
		return containsInput(c, q.Lower)
	}
}

// SearchFilter keeps remote search results containing the search terms.
func SearchFilter(q Query) Filter {
	terms := strings.ToLower(q.SearchTerms())
	return func(c Candidate) bool {
		if q.Empty() || c.Location == "" {
			return false
		}
		return strings.Contains(strings.ToLower(c.Location), terms)
	}
}
