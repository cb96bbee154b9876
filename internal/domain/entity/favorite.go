package entity

import (
	"slices"
	"time"
)

// FavoriteID uniquely identifies a favorite/bookmark.
type FavoriteID int64

// BookmarkTag marks a site as a bookmark in the URL-bar candidate set.
const BookmarkTag = "bookmark"

// Favorite represents a bookmarked URL.
type Favorite struct {
	ID        FavoriteID `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewFavorite creates a new favorite for a URL.
func NewFavorite(url, title string, tags ...string) *Favorite {
	now := time.Now()
	return &Favorite{
		URL:       url,
		Title:     title,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTag returns true if this favorite has the given tag.
func (f *Favorite) HasTag(tag string) bool {
	return slices.Contains(f.Tags, tag)
}
