package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/logging"
)

// ErrInvalidURL is returned when a visit or bookmark has no usable URL.
var ErrInvalidURL = errors.New("invalid url")

// ManageHistoryUseCase records visits and lists history.
type ManageHistoryUseCase struct {
	historyRepo repository.HistoryRepository
	now         func() time.Time
}

// NewManageHistoryUseCase creates a new history use case.
func NewManageHistoryUseCase(historyRepo repository.HistoryRepository) *ManageHistoryUseCase {
	return &ManageHistoryUseCase{
		historyRepo: historyRepo,
		now:         time.Now,
	}
}

// RecordVisitInput describes one page visit.
type RecordVisitInput struct {
	URL   string
	Title string
}

// RecordVisit adds a visit, creating the entry on first visit.
func (uc *ManageHistoryUseCase) RecordVisit(ctx context.Context, input RecordVisitInput) (*entity.HistoryEntry, error) {
	log := logging.FromContext(ctx)

	location := url.Normalize(input.URL)
	if location == "" {
		return nil, ErrInvalidURL
	}

	existing, err := uc.historyRepo.FindByURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to look up history entry: %w", err)
	}

	entry := existing
	if entry == nil {
		entry = entity.NewHistoryEntry(location, input.Title)
		entry.LastVisited = uc.now()
		entry.CreatedAt = entry.LastVisited
	} else {
		entry.IncrementVisit(uc.now())
		if input.Title != "" {
			entry.Title = input.Title
		}
	}

	if err := uc.historyRepo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save history entry: %w", err)
	}

	log.Debug().
		Str("url", logging.TruncateURL(location, 80)).
		Int64("visits", entry.VisitCount).
		Msg("visit recorded")
	return entry, nil
}

// GetRecent retrieves recent history entries with pagination.
func (uc *ManageHistoryUseCase) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries, err := uc.historyRepo.GetRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent history: %w", err)
	}
	return entries, nil
}

// Clear removes every history entry.
func (uc *ManageHistoryUseCase) Clear(ctx context.Context) error {
	if err := uc.historyRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logging.FromContext(ctx).Info().Msg("history cleared")
	return nil
}
