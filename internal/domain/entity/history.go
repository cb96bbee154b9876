package entity

import "time"

// HistoryEntry represents a visited URL in browsing history.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	VisitCount  int64     `json:"visit_count"`
	LastVisited time.Time `json:"last_visited"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHistoryEntry creates a new history entry for a URL.
func NewHistoryEntry(url, title string) *HistoryEntry {
	now := time.Now()
	return &HistoryEntry{
		URL:         url,
		Title:       title,
		VisitCount:  1,
		LastVisited: now,
		CreatedAt:   now,
	}
}

// IncrementVisit updates the entry for a new visit.
func (h *HistoryEntry) IncrementVisit(at time.Time) {
	h.VisitCount++
	h.LastVisited = at
}

// Visited reports whether the entry carries a last-visited time.
func (h *HistoryEntry) Visited() bool {
	return !h.LastVisited.IsZero()
}
