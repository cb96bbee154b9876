package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/domain/repository"
	"github.com/bnema/wayfinder/internal/logging"
)

const logURLMaxLen = 60

// aboutBlankURL is recorded once but never accumulates visits.
const aboutBlankURL = "about:blank"

type historyRepo struct {
	db *sql.DB
}

// NewHistoryRepository creates a new SQLite-backed history repository.
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepo{db: db}
}

const upsertHistory = `
INSERT INTO history (url, title, visit_count, last_visited, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
    title        = CASE WHEN excluded.title <> '' THEN excluded.title ELSE history.title END,
    visit_count  = excluded.visit_count,
    last_visited = excluded.last_visited
RETURNING id`

func (r *historyRepo) Save(ctx context.Context, entry *entity.HistoryEntry) error {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", logging.TruncateURL(entry.URL, logURLMaxLen)).Msg("saving history entry")

	count := entry.VisitCount
	if count < 1 || entry.URL == aboutBlankURL {
		count = 1
	}
	created := entry.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, upsertHistory,
		entry.URL, entry.Title, count, toMillis(entry.LastVisited), toMillis(created),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("save history %s: %w", logging.TruncateURL(entry.URL, logURLMaxLen), err)
	}
	entry.ID = id
	return nil
}

const historyColumns = `id, url, title, visit_count, last_visited, created_at`

func (r *historyRepo) FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM history WHERE url = ?`, url)
	entry, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *historyRepo) GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+historyColumns+` FROM history ORDER BY last_visited DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.HistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *historyRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *historyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*entity.HistoryEntry, error) {
	var (
		e                  entity.HistoryEntry
		lastVisited, added int64
	)
	if err := row.Scan(&e.ID, &e.URL, &e.Title, &e.VisitCount, &lastVisited, &added); err != nil {
		return nil, err
	}
	e.LastVisited = fromMillis(lastVisited)
	e.CreatedAt = fromMillis(added)
	return &e, nil
}

// toMillis stores the zero time as 0 so "never visited" survives a round trip.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
