package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pribylovaa/news-radar/internal/normalize"
)

// Archive помечает архивными неархивные материалы без закладки, опубликованные раньше before.
func (s *Storage) Archive(ctx context.Context, before time.Time) (int, error) {
	const op = "storage.sqlite.Archive"

	res, err := s.exec(ctx, sq.Update("articles").
		Set("is_archived", 1).
		Where(sq.Eq{"is_archived": 0, "is_bookmarked": 0}).
		Where(sq.Lt{"published_at": normalize.FormatTime(before)}),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// PurgeCold удаляет материалы без закладки с heat ниже floor, загруженные раньше fetchedBefore.
// URL удалённых записей остаются в deleted_urls, постинги индекса удаляются каскадом.
func (s *Storage) PurgeCold(ctx context.Context, floor float64, fetchedBefore time.Time) (int, error) {
	const op = "storage.sqlite.PurgeCold"

	var deleted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ids, err := selectIDs(ctx, tx, sq.Select("id").From("articles").
			Where(sq.Eq{"is_bookmarked": 0}).
			Where(sq.Lt{"heat_score": floor}).
			Where(sq.Lt{"fetched_at": normalize.FormatTime(fetchedBefore)}),
		)
		if err != nil {
			return err
		}

		deleted, err = deleteWithTombstones(ctx, tx, ids, time.Now())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

// TrimToCap удаляет материалы сверх max: сначала архивные, затем самые старые. Закладки не трогаются.
// max <= 0 отключает ограничение.
func (s *Storage) TrimToCap(ctx context.Context, max int) (int, error) {
	const op = "storage.sqlite.TrimToCap"

	if max <= 0 {
		return 0, nil
	}

	var deleted int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var total int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}

		excess := total - max
		if excess <= 0 {
			return nil
		}

		ids, err := selectIDs(ctx, tx, sq.Select("id").From("articles").
			Where(sq.Eq{"is_bookmarked": 0}).
			OrderBy("is_archived DESC", "published_at ASC", "id").
			Limit(uint64(excess)),
		)
		if err != nil {
			return err
		}

		deleted, err = deleteWithTombstones(ctx, tx, ids, time.Now())
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return deleted, nil
}

func selectIDs(ctx context.Context, tx *sql.Tx, b sq.SelectBuilder) ([]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// deleteWithTombstones переносит url материалов ids в deleted_urls и удаляет сами материалы.
func deleteWithTombstones(ctx context.Context, tx *sql.Tx, ids []string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sq.Insert("deleted_urls").
		Options("OR IGNORE").
		Columns("url", "deleted_at").
		Select(sq.Select("url").
			Column(sq.Expr("?", normalize.FormatTime(at))).
			From("articles").
			Where(sq.Eq{"id": ids}),
		).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build tombstones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("tombstones: %w", err)
	}

	query, args, err = sq.Delete("articles").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}
