package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/storage"
)

// articleColumns — порядок колонок для scanArticle.
var articleColumns = []string{
	"id", "title", "summary", "summary_kind", "content", "url", "image_url", "fingerprint",
	"source", "source_weight", "category", "tags", "published_at", "fetched_at", "heat_score",
	"view_count", "click_count", "like_count", "comment_count", "share_count",
	"is_read", "is_bookmarked", "is_archived", "is_manual",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var (
		a                               models.Article
		kind, category, tags            string
		published, fetched              string
		read, bookmarked, archived, man int
	)

	if err := row.Scan(
		&a.ID, &a.Title, &a.Summary, &kind, &a.Content, &a.URL, &a.ImageURL, &a.Fingerprint,
		&a.Source, &a.SourceWeight, &category, &tags, &published, &fetched, &a.HeatScore,
		&a.Engagement.Views, &a.Engagement.Clicks, &a.Engagement.Likes, &a.Engagement.Comments, &a.Engagement.Shares,
		&read, &bookmarked, &archived, &man,
	); err != nil {
		return models.Article{}, err
	}

	var err error
	if a.PublishedAt, err = normalize.ParseCanonical(published); err != nil {
		return models.Article{}, fmt.Errorf("published_at: %w", err)
	}
	if a.FetchedAt, err = normalize.ParseCanonical(fetched); err != nil {
		return models.Article{}, fmt.Errorf("fetched_at: %w", err)
	}

	a.SummaryKind = models.SummaryKind(kind)
	a.Category = models.Category(category)
	a.Tags = splitTags(tags)
	a.IsRead = read == 1
	a.IsBookmarked = bookmarked == 1
	a.IsArchived = archived == 1
	a.IsManual = man == 1

	return a, nil
}

// KnownURLs возвращает подмножество urls, уже присутствующих в корпусе,
// включая архивные и удалённые очисткой.
func (s *Storage) KnownURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	const op = "storage.sqlite.KnownURLs"

	known := make(map[string]bool)
	if len(urls) == 0 {
		return known, nil
	}

	deletedQuery, deletedArgs, err := sq.Select("url").From("deleted_urls").Where(sq.Eq{"url": urls}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	query, args, err := sq.Select("url").From("articles").
		Where(sq.Eq{"url": urls}).
		Suffix("UNION "+deletedQuery, deletedArgs...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		known[u] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return known, nil
}

// InsertArticles вставляет пачку в одной транзакции.
//
// Политика:
//   - конфликт по url, в том числе с удалённым очисткой, — запись молча пропускается
//     (архивные и удалённые не «воскрешаются»);
//   - каждая запись пишется под своим SAVEPOINT: ошибка одной откатывает только её
//     строку и постинги, логируется и не прерывает пачку;
//   - для каждой вставленной записи синхронно пишется индекс.
func (s *Storage) InsertArticles(ctx context.Context, items []models.Article) ([]models.Article, error) {
	const op = "storage.sqlite.InsertArticles"

	if len(items) == 0 {
		return nil, nil
	}

	lg := log.From(ctx)
	var inserted []models.Article

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, `SAVEPOINT article_insert`); err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}

			ok, err := s.insertTx(ctx, tx, item, true)
			if err != nil {
				lg.Warn("article_insert_failed",
					slog.String("op", op),
					slog.String("url", item.URL),
					slog.String("err", err.Error()),
				)
				if _, rerr := tx.ExecContext(ctx, `ROLLBACK TO article_insert`); rerr != nil {
					return fmt.Errorf("rollback to savepoint: %w", rerr)
				}
			} else if ok {
				inserted = append(inserted, item)
			}

			if _, err := tx.ExecContext(ctx, `RELEASE article_insert`); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inserted, nil
}

// InsertArticle вставляет один материал; повторный url — storage.ErrAlreadyExists.
func (s *Storage) InsertArticle(ctx context.Context, item models.Article) (*models.Article, error) {
	const op = "storage.sqlite.InsertArticle"

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := s.insertTx(ctx, tx, item, false)
		return err
	})
	if err != nil {
		if isUnique(err) || errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &item, nil
}

// insertTx пишет материал и его постинги. ignoreConflict=true превращает конфликт
// по url (с живой строкой или с deleted_urls) в (false, nil).
func (s *Storage) insertTx(ctx context.Context, tx *sql.Tx, a models.Article, ignoreConflict bool) (bool, error) {
	var deleted int
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM deleted_urls WHERE url = ?)`, a.URL,
	).Scan(&deleted); err != nil {
		return false, fmt.Errorf("deleted_urls: %w", err)
	}
	if deleted == 1 {
		if ignoreConflict {
			return false, nil
		}
		return false, storage.ErrAlreadyExists
	}

	doc := s.tok.Document(a.Title, a.Summary, a.Content)

	b := sq.Insert("articles").
		Columns(
			"id", "title", "summary", "summary_kind", "content", "url", "image_url", "fingerprint",
			"source", "source_weight", "category", "tags", "published_at", "fetched_at", "heat_score",
			"view_count", "click_count", "like_count", "comment_count", "share_count",
			"is_read", "is_bookmarked", "is_archived", "is_manual", "doc_len",
		).
		Values(
			a.ID, a.Title, a.Summary, string(a.SummaryKind), a.Content, a.URL, a.ImageURL, a.Fingerprint,
			a.Source, a.SourceWeight, string(a.Category), joinTags(a.Tags),
			normalize.FormatTime(a.PublishedAt), normalize.FormatTime(a.FetchedAt), a.HeatScore,
			a.Engagement.Views, a.Engagement.Clicks, a.Engagement.Likes, a.Engagement.Comments, a.Engagement.Shares,
			boolInt(a.IsRead), boolInt(a.IsBookmarked), boolInt(a.IsArchived), boolInt(a.IsManual), doc.Length,
		)
	if ignoreConflict {
		b = b.Suffix("ON CONFLICT(url) DO NOTHING")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("build: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if err := writePostings(ctx, tx, a.ID, doc.Postings); err != nil {
		return false, fmt.Errorf("index: %w", err)
	}

	return true, nil
}

// ArticleByID возвращает материал по идентификатору.
func (s *Storage) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.sqlite.ArticleByID"

	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	a, err := scanArticle(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapNoRows(op, err)
	}

	return &a, nil
}

// ListArticles возвращает страницу с общим числом записей.
// Порядок: heat_score DESC (по умолчанию) или published_at DESC; тай-брейк по id.
func (s *Storage) ListArticles(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	const op = "storage.sqlite.ListArticles"

	page, size := opts.Page, opts.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 1
	}

	where := sq.And{}
	if !opts.IncludeArchived {
		where = append(where, sq.Eq{"is_archived": 0})
	}
	if opts.Category != "" {
		where = append(where, sq.Eq{"category": string(opts.Category)})
	}
	if opts.OnlyBookmarked {
		where = append(where, sq.Eq{"is_bookmarked": 1})
	}

	countQuery, countArgs, err := sq.Select("COUNT(*)").From("articles").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build count: %w", op, err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	order := []string{"heat_score DESC", "published_at DESC", "id"}
	if opts.SortBy == models.SortLatest {
		order = []string{"published_at DESC", "id"}
	}

	query, args, err := sq.Select(articleColumns...).From("articles").
		Where(where).
		OrderBy(order...).
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	items, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Page{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *Storage) queryArticles(ctx context.Context, query string, args ...any) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return out, nil
}

// SetBookmark меняет флаг закладки.
func (s *Storage) SetBookmark(ctx context.Context, id string, value bool) error {
	return s.setFlag(ctx, "storage.sqlite.SetBookmark", "is_bookmarked", id, value)
}

// SetRead меняет флаг «прочитано».
func (s *Storage) SetRead(ctx context.Context, id string, value bool) error {
	return s.setFlag(ctx, "storage.sqlite.SetRead", "is_read", id, value)
}

func (s *Storage) setFlag(ctx context.Context, op, column, id string, value bool) error {
	res, err := s.exec(ctx, sq.Update("articles").Set(column, boolInt(value)).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// IncrementClicks увеличивает click_count и возвращает обновлённый материал.
func (s *Storage) IncrementClicks(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.sqlite.IncrementClicks"

	res, err := s.exec(ctx, sq.Update("articles").Set("click_count", sq.Expr("click_count + 1")).Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return s.ArticleByID(ctx, id)
}

// HeatCandidates возвращает неархивные материалы для пересчёта heat.
func (s *Storage) HeatCandidates(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.HeatCandidates"

	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"is_archived": 0}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	items, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// UpdateHeat записывает оценки одной транзакцией.
func (s *Storage) UpdateHeat(ctx context.Context, scores map[string]float64) error {
	const op = "storage.sqlite.UpdateHeat"

	if len(scores) == 0 {
		return nil
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `UPDATE articles SET heat_score = ? WHERE id = ?`)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer stmt.Close()

		for id, score := range scores {
			if _, err := stmt.ExecContext(ctx, score, id); err != nil {
				return fmt.Errorf("update %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SummaryTargets — неархивные материалы с шаблонным или пустым summary, свежие первыми.
func (s *Storage) SummaryTargets(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.SummaryTargets"

	query, args, err := sq.Select(articleColumns...).From("articles").
		Where(sq.Eq{"is_archived": 0}).
		Where(sq.Or{sq.NotEq{"summary_kind": string(models.SummaryAI)}, sq.Eq{"summary": ""}}).
		OrderBy("published_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	items, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// UpdateSummary меняет summary и синхронно переиндексирует материал.
func (s *Storage) UpdateSummary(ctx context.Context, id, summary string, kind models.SummaryKind) error {
	const op = "storage.sqlite.UpdateSummary"

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var title, content string
		err := tx.QueryRowContext(ctx, `SELECT title, content FROM articles WHERE id = ?`, id).Scan(&title, &content)
		if err != nil {
			return err
		}

		doc := s.tok.Document(title, summary, content)

		if _, err := tx.ExecContext(ctx,
			`UPDATE articles SET summary = ?, summary_kind = ?, doc_len = ? WHERE id = ?`,
			summary, string(kind), doc.Length, id,
		); err != nil {
			return fmt.Errorf("update: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM article_terms WHERE article_id = ?`, id); err != nil {
			return fmt.Errorf("drop index: %w", err)
		}

		return writePostings(ctx, tx, id, doc.Postings)
	})
	if err != nil {
		return wrapNoRows(op, err)
	}

	return nil
}
