package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
)

// lazyRepo builds the wrapped repository from the provider's handle on
// first use. A failed open is sticky.
type lazyRepo[R any] struct {
	provider port.DatabaseProvider
	build    func(*sql.DB) R
	once     sync.Once
	repo     R
	err      error
}

func (l *lazyRepo[R]) get(ctx context.Context) (R, error) {
	l.once.Do(func() {
		db, err := l.provider.DB(ctx)
		if err != nil {
			l.err = err
			return
		}
		l.repo = l.build(db)
	})
	return l.repo, l.err
}

// LazyHistoryRepository defers opening the database until the first visit
// is recorded or read, so commands that never touch history stay fast.
type LazyHistoryRepository struct {
	lazy lazyRepo[repository.HistoryRepository]
}

// NewLazyHistoryRepository wraps provider in a history repository.
func NewLazyHistoryRepository(provider port.DatabaseProvider) repository.HistoryRepository {
	return &LazyHistoryRepository{lazy: lazyRepo[repository.HistoryRepository]{provider: provider, build: NewHistoryRepository}}
}

func (r *LazyHistoryRepository) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return err
	}
	return repo.Save(ctx, entry)
}

func (r *LazyHistoryRepository) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindByURL(ctx, url)
}

func (r *LazyHistoryRepository) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetRecent(ctx, limit, offset)
}

func (r *LazyHistoryRepository) Delete(ctx context.Context, id int64) error {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (r *LazyHistoryRepository) DeleteAll(ctx context.Context) error {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return err
	}
	return repo.DeleteAll(ctx)
}

// LazyFavoriteRepository is the bookmark counterpart of LazyHistoryRepository.
type LazyFavoriteRepository struct {
	lazy lazyRepo[repository.FavoriteRepository]
}

// NewLazyFavoriteRepository wraps provider in a bookmark repository.
func NewLazyFavoriteRepository(provider port.DatabaseProvider) repository.FavoriteRepository {
	return &LazyFavoriteRepository{lazy: lazyRepo[repository.FavoriteRepository]{provider: provider, build: NewFavoriteRepository}}
}

func (r *LazyFavoriteRepository) Save(ctx context.Context, fav *entity.Favorite) error {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return err
	}
	return repo.Save(ctx, fav)
}

func (r *LazyFavoriteRepository) FindByURL(ctx context.Context, url string) (*entity.Favorite, error) {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindByURL(ctx, url)
}

func (r *LazyFavoriteRepository) GetAll(ctx context.Context) ([]*entity.Favorite, error) {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

func (r *LazyFavoriteRepository) Delete(ctx context.Context, id entity.FavoriteID) error {
	repo, err := r.lazy.get(ctx)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
