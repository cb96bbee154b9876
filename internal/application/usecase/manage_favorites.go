package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/logging"
)

// ManageFavoritesUseCase handles bookmark operations.
type ManageFavoritesUseCase struct {
	favoriteRepo repository.FavoriteRepository
}

// NewManageFavoritesUseCase creates a new favorites management use case.
func NewManageFavoritesUseCase(favoriteRepo repository.FavoriteRepository) *ManageFavoritesUseCase {
	return &ManageFavoritesUseCase{favoriteRepo: favoriteRepo}
}

// AddFavoriteInput contains parameters for adding a favorite.
type AddFavoriteInput struct {
	URL   string
	Title string
	Tags  []string
}

// Add creates a bookmark. Every favorite carries the bookmark tag.
func (uc *ManageFavoritesUseCase) Add(ctx context.Context, input AddFavoriteInput) (*entity.Favorite, error) {
	log := logging.FromContext(ctx)

	location := url.Normalize(input.URL)
	if location == "" {
		return nil, ErrInvalidURL
	}

	tags := slices.Clone(input.Tags)
	if !slices.Contains(tags, entity.BookmarkTag) {
		tags = append(tags, entity.BookmarkTag)
	}

	existing, err := uc.favoriteRepo.FindByURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing favorite: %w", err)
	}
	if existing != nil {
		log.Debug().Str("url", location).Msg("URL already favorited")
		return existing, nil
	}

	fav := entity.NewFavorite(location, input.Title, tags...)
	if err := uc.favoriteRepo.Save(ctx, fav); err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	log.Info().Str("url", location).Int64("id", int64(fav.ID)).Msg("favorite added")
	return fav, nil
}

// Remove deletes a favorite by ID.
func (uc *ManageFavoritesUseCase) Remove(ctx context.Context, id entity.FavoriteID) error {
	if err := uc.favoriteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete favorite %d: %w", id, err)
	}
	return nil
}

// GetAll lists every favorite.
func (uc *ManageFavoritesUseCase) GetAll(ctx context.Context) ([]*entity.Favorite, error) {
	favs, err := uc.favoriteRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	return favs, nil
}
