package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/storage"
)

var sourceColumns = []string{
	"name", "url", "source_type", "category", "strategy", "selector",
	"fetch_interval", "last_fetch_at", "is_active", "priority", "weight",
}

func scanSource(row rowScanner) (models.Source, error) {
	var (
		src                  models.Source
		kind, category, last string
		intervalSec, active  int64
	)

	if err := row.Scan(
		&src.Name, &src.URL, &kind, &category, &src.Strategy, &src.Selector,
		&intervalSec, &last, &active, &src.Priority, &src.Weight,
	); err != nil {
		return models.Source{}, err
	}

	lastAt, err := normalize.ParseCanonical(last)
	if err != nil {
		return models.Source{}, fmt.Errorf("last_fetch_at: %w", err)
	}

	src.Kind = models.SourceKind(kind)
	src.Category = models.Category(category)
	src.FetchInterval = time.Duration(intervalSec) * time.Second
	src.LastFetchAt = lastAt
	src.IsActive = active == 1

	return src, nil
}

// SeedSources добавляет отсутствующие источники; пользовательские изменения существующих сохраняются.
func (s *Storage) SeedSources(ctx context.Context, sources []models.Source) (int, error) {
	const op = "storage.sqlite.SeedSources"

	var added int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, src := range sources {
			query, args, err := sq.Insert("sources").
				Columns(sourceColumns...).
				Values(
					src.Name, src.URL, string(src.Kind), string(src.Category), src.Strategy, src.Selector,
					int64(src.FetchInterval/time.Second), normalize.FormatTime(src.LastFetchAt),
					boolInt(src.IsActive), src.Priority, src.Weight,
				).
				Suffix("ON CONFLICT(name) DO NOTHING").
				ToSql()
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}

			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert %s: %w", src.Name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				added++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return added, nil
}

// ListSources возвращает все источники по приоритету.
func (s *Storage) ListSources(ctx context.Context) ([]models.Source, error) {
	const op = "storage.sqlite.ListSources"

	query, args, err := sq.Select(sourceColumns...).From("sources").OrderBy("priority DESC", "name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	out, err := s.querySources(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// ActiveSources — активные источники; при равном приоритете первыми идут давно не опрашиваемые.
func (s *Storage) ActiveSources(ctx context.Context, limit int) ([]models.Source, error) {
	const op = "storage.sqlite.ActiveSources"

	b := sq.Select(sourceColumns...).From("sources").
		Where(sq.Eq{"is_active": 1}).
		OrderBy("priority DESC", "last_fetch_at", "name")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	out, err := s.querySources(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) querySources(ctx context.Context, query string, args ...any) ([]models.Source, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, src)
	}

	return out, rows.Err()
}

// SetSourceActive включает/выключает источник.
func (s *Storage) SetSourceActive(ctx context.Context, name string, active bool) error {
	const op = "storage.sqlite.SetSourceActive"

	res, err := s.exec(ctx, sq.Update("sources").Set("is_active", boolInt(active)).Where(sq.Eq{"name": name}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// TouchSource обновляет last_fetch_at.
func (s *Storage) TouchSource(ctx context.Context, name string, at time.Time) error {
	const op = "storage.sqlite.TouchSource"

	res, err := s.exec(ctx, sq.Update("sources").Set("last_fetch_at", normalize.FormatTime(at)).Where(sq.Eq{"name": name}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
