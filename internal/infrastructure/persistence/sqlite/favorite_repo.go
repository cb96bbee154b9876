package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
	"github.com/bnema/wayfinder/internal/logging"
)

type favoriteRepo struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new SQLite-backed favorite repository.
func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &favoriteRepo{db: db}
}

const upsertFavorite = `
INSERT INTO favorites (url, title, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
    title      = excluded.title,
    updated_at = excluded.updated_at
RETURNING id`

// Save upserts the favorite and replaces its tags.
func (r *favoriteRepo) Save(ctx context.Context, fav *entity.Favorite) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(fav.URL, logURLMaxLen)).Msg("saving favorite")

	now := time.Now()
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = now
	}
	if fav.UpdatedAt.IsZero() {
		fav.UpdatedAt = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	if err := tx.QueryRowContext(ctx, upsertFavorite,
		fav.URL, fav.Title, toMillis(fav.CreatedAt), toMillis(fav.UpdatedAt),
	).Scan(&id); err != nil {
		return fmt.Errorf("save favorite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorite_tags WHERE favorite_id = ?`, id); err != nil {
		return fmt.Errorf("reset favorite tags: %w", err)
	}
	for _, tag := range fav.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO favorite_tags (favorite_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return fmt.Errorf("save favorite tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	fav.ID = entity.FavoriteID(id)
	return nil
}

const favoriteColumns = `id, url, title, created_at, updated_at`

func (r *favoriteRepo) FindByURL(ctx context.Context, url string) (*entity.Favorite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+favoriteColumns+` FROM favorites WHERE url = ?`, url)
	fav, err := scanFavorite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	tags, err := r.tagsByFavorite(ctx)
	if err != nil {
		return nil, err
	}
	fav.Tags = tags[fav.ID]
	return fav, nil
}

func (r *favoriteRepo) GetAll(ctx context.Context) ([]*entity.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+favoriteColumns+` FROM favorites ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var favs []*entity.Favorite
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	tags, err := r.tagsByFavorite(ctx)
	if err != nil {
		return nil, err
	}
	for _, fav := range favs {
		fav.Tags = tags[fav.ID]
	}
	return favs, nil
}

func (r *favoriteRepo) Delete(ctx context.Context, id entity.FavoriteID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, int64(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("favorite %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *favoriteRepo) tagsByFavorite(ctx context.Context) (map[entity.FavoriteID][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT favorite_id, tag FROM favorite_tags`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[entity.FavoriteID][]string)
	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[entity.FavoriteID(id)] = append(out[entity.FavoriteID(id)], tag)
	}
	for id := range out {
		slices.Sort(out[id])
	}
	return out, rows.Err()
}

func scanFavorite(row rowScanner) (*entity.Favorite, error) {
	var (
		f                entity.Favorite
		created, updated int64
	)
	if err := row.Scan(&f.ID, &f.URL, &f.Title, &created, &updated); err != nil {
		return nil, err
	}
	f.CreatedAt = fromMillis(created)
	f.UpdatedAt = fromMillis(updated)
	return &f, nil
}
