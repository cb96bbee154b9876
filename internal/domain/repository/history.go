package repository

import (
	"context"
	"errors"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a lookup has no result.
var ErrNotFound = errors.New("not found")

// HistoryRepository defines operations for browsing history persistence.
type HistoryRepository interface {
	// Save creates or updates a history entry (upsert on URL).
	Save(ctx context.Context, entry *entity.HistoryEntry) error

	// FindByURL retrieves a history entry by its URL.
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)

	// GetRecent retrieves recent history entries with pagination.
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)

	// Delete removes a single history entry by ID.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes all history entries.
	DeleteAll(ctx context.Context) error
}
