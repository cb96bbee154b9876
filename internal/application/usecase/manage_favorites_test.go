package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/domain/entity"
	repomocks "github.com/bnema/wayfinder/internal/domain/repository/mocks"
)

func TestManageFavorites_AddTagsBookmark(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockFavoriteRepository(t)

	repo.EXPECT().FindByURL(mock.Anything, "https://go.dev").Return(nil, nil)
	repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*entity.Favorite")).
		Run(func(_ context.Context, f *entity.Favorite) { f.ID = 9 }).
		Return(nil)

	fav, err := usecase.NewManageFavoritesUseCase(repo).Add(ctx, usecase.AddFavoriteInput{
		URL:   "go.dev",
		Title: "Go",
		Tags:  []string{"lang"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FavoriteID(9), fav.ID)
	assert.Equal(t, []string{"lang", entity.BookmarkTag}, fav.Tags)
}

func TestManageFavorites_AddReturnsExisting(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockFavoriteRepository(t)

	existing := &entity.Favorite{ID: 1, URL: "https://go.dev"}
	repo.EXPECT().FindByURL(mock.Anything, "https://go.dev").Return(existing, nil)

	fav, err := usecase.NewManageFavoritesUseCase(repo).Add(ctx, usecase.AddFavoriteInput{URL: "https://go.dev"})
	require.NoError(t, err)
	assert.Same(t, existing, fav)
}

func TestManageFavorites_GetAllWrapsErrors(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockFavoriteRepository(t)
	repo.EXPECT().GetAll(mock.Anything).Return(nil, errors.New("db connection failed"))

	favs, err := usecase.NewManageFavoritesUseCase(repo).GetAll(ctx)
	require.Error(t, err)
	assert.Nil(t, favs)
	assert.Contains(t, err.Error(), "failed to get favorites")
}

func TestManageFavorites_Remove(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockFavoriteRepository(t)
	repo.EXPECT().Delete(mock.Anything, entity.FavoriteID(3)).Return(nil)

	require.NoError(t, usecase.NewManageFavoritesUseCase(repo).Remove(ctx, 3))
}
