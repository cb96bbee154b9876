package repository

import (
	"context"

	"github.com/bnema/wayfinder/internal/domain/entity"
)

// FavoriteRepository defines operations for bookmark persistence.
type FavoriteRepository interface {
	// Save creates or updates a favorite (upsert on URL).
	Save(ctx context.Context, fav *entity.Favorite) error

	// FindByURL retrieves a favorite by its URL.
	FindByURL(ctx context.Context, url string) (*entity.Favorite, error)

	// GetAll retrieves all favorites.
	GetAll(ctx context.Context) ([]*entity.Favorite, error)

	// Delete removes a favorite by ID.
	Delete(ctx context.Context, id entity.FavoriteID) error
}
