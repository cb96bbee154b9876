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

func TestManageHistory_RecordVisit_CreatesEntry(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)

	repo.EXPECT().FindByURL(mock.Anything, "https://example.com").Return(nil, nil)
	repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*entity.HistoryEntry")).
		Run(func(_ context.Context, e *entity.HistoryEntry) {
			assert.Equal(t, "https://example.com", e.URL)
			assert.Equal(t, int64(1), e.VisitCount)
			assert.False(t, e.LastVisited.IsZero())
		}).
		Return(nil)

	uc := usecase.NewManageHistoryUseCase(repo)
	entry, err := uc.RecordVisit(ctx, usecase.RecordVisitInput{URL: "example.com", Title: "Example"})
	require.NoError(t, err)
	assert.Equal(t, "Example", entry.Title)
}

func TestManageHistory_RecordVisit_IncrementsExisting(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)

	existing := &entity.HistoryEntry{ID: 4, URL: "https://example.com", Title: "Old", VisitCount: 2}
	repo.EXPECT().FindByURL(mock.Anything, "https://example.com").Return(existing, nil)
	repo.EXPECT().Save(mock.Anything, existing).Return(nil)

	uc := usecase.NewManageHistoryUseCase(repo)
	entry, err := uc.RecordVisit(ctx, usecase.RecordVisitInput{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.VisitCount)
	assert.Equal(t, "Old", entry.Title, "empty title keeps the stored one")
}

func TestManageHistory_RecordVisit_Errors(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	uc := usecase.NewManageHistoryUseCase(repo)

	_, err := uc.RecordVisit(ctx, usecase.RecordVisitInput{URL: "  "})
	assert.ErrorIs(t, err, usecase.ErrInvalidURL)

	repo.EXPECT().FindByURL(mock.Anything, "https://example.com").Return(nil, errors.New("locked"))
	_, err = uc.RecordVisit(ctx, usecase.RecordVisitInput{URL: "example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up history entry")
}

func TestManageHistory_GetRecentDefaultsLimit(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockHistoryRepository(t)
	repo.EXPECT().GetRecent(mock.Anything, 50, 0).Return([]*entity.HistoryEntry{}, nil)

	entries, err := usecase.NewManageHistoryUseCase(repo).GetRecent(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
