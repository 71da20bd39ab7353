package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/search"
)

// MaxSearchResults — верхняя граница выдачи поиска.
const MaxSearchResults = 100

// writePostings пишет постинги документа в article_terms.
func writePostings(ctx context.Context, tx *sql.Tx, id string, postings []search.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO article_terms (term, article_id, field, tf) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, p := range postings {
		if _, err := stmt.ExecContext(ctx, p.Term, id, int(p.Field), p.TF); err != nil {
			return fmt.Errorf("term %q: %w", p.Term, err)
		}
	}

	return nil
}

// SearchArticles ищет по префиксам токенов запроса (все токены обязательны),
// сужает кандидатов фильтрами и ранжирует BM25 внутри отфильтрованного множества.
// Архивные материалы в выдачу не попадают.
func (s *Storage) SearchArticles(ctx context.Context, q models.SearchQuery) ([]models.Article, error) {
	const op = "storage.sqlite.SearchArticles"

	tokens := s.tok.QueryTokens(q.Text)
	if len(tokens) == 0 {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	var stats search.Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(doc_len), 0) FROM articles WHERE is_archived = 0`,
	).Scan(&stats.Docs, &stats.AvgLength); err != nil {
		return nil, fmt.Errorf("%s: stats: %w", op, err)
	}

	hits := make([]search.TermHits, 0, len(tokens))
	docs := make(map[string]search.Doc)

	for _, tok := range tokens {
		th, err := s.termHits(ctx, tok, q.Filter, docs)
		if err != nil {
			return nil, fmt.Errorf("%s: token %q: %w", op, tok, err)
		}
		if len(th.Docs) == 0 {
			return nil, nil
		}
		hits = append(hits, th)
	}

	ranked := s.bm.Rank(hits, docs, stats, limit)
	if len(ranked) == 0 {
		return nil, nil
	}

	ids := make([]string, len(ranked))
	for i, h := range ranked {
		ids[i] = h.ID
	}

	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	items, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: load: %w", op, err)
	}

	byID := make(map[string]models.Article, len(items))
	for _, a := range items {
		byID[a.ID] = a
	}

	out := make([]models.Article, 0, len(ranked))
	for _, h := range ranked {
		if a, ok := byID[h.ID]; ok {
			out = append(out, a)
		}
	}

	return out, nil
}

// termHits собирает совпадения одного токена: df по всему активному корпусу
// и частоты по полям для кандидатов, прошедших фильтр. docs дополняется метаданными.
func (s *Storage) termHits(ctx context.Context, tok string, f models.SearchFilter, docs map[string]search.Doc) (search.TermHits, error) {
	lo, hi := search.PrefixRange(tok)
	th := search.TermHits{Token: tok, Docs: make(map[string]map[search.Field]int)}

	dfQuery, dfArgs, err := sq.Select("COUNT(DISTINCT t.article_id)").
		From("article_terms AS t").
		Join("articles AS a ON a.id = t.article_id").
		Where(sq.GtOrEq{"t.term": lo}).
		Where(sq.Lt{"t.term": hi}).
		Where(sq.Eq{"a.is_archived": 0}).
		ToSql()
	if err != nil {
		return th, fmt.Errorf("build df: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, dfQuery, dfArgs...).Scan(&th.DF); err != nil {
		return th, fmt.Errorf("df: %w", err)
	}
	if th.DF == 0 {
		return th, nil
	}

	b := sq.Select("t.article_id", "t.field", "SUM(t.tf)", "a.doc_len", "a.published_at").
		From("article_terms AS t").
		Join("articles AS a ON a.id = t.article_id").
		Where(sq.GtOrEq{"t.term": lo}).
		Where(sq.Lt{"t.term": hi}).
		Where(sq.Eq{"a.is_archived": 0}).
		GroupBy("t.article_id", "t.field")
	b = applyFilter(b, f)

	query, args, err := b.ToSql()
	if err != nil {
		return th, fmt.Errorf("build hits: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return th, fmt.Errorf("hits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			field, tf int
			docLen    int
			published string
		)
		if err := rows.Scan(&id, &field, &tf, &docLen, &published); err != nil {
			return th, fmt.Errorf("scan: %w", err)
		}

		if th.Docs[id] == nil {
			th.Docs[id] = make(map[search.Field]int)
		}
		th.Docs[id][search.Field(field)] += tf

		if _, ok := docs[id]; !ok {
			pub, _ := normalize.ParseCanonical(published)
			docs[id] = search.Doc{ID: id, Length: docLen, PublishedAt: pub}
		}
	}

	return th, rows.Err()
}

// applyFilter добавляет предикаты рубрики, источника и диапазона дат.
func applyFilter(b sq.SelectBuilder, f models.SearchFilter) sq.SelectBuilder {
	if f.Category != "" {
		b = b.Where(sq.Eq{"a.category": string(f.Category)})
	}
	if f.Source != "" {
		b = b.Where(sq.Eq{"a.source": f.Source})
	}
	if !f.From.IsZero() {
		b = b.Where(sq.GtOrEq{"a.published_at": normalize.FormatTime(f.From)})
	}
	if !f.To.IsZero() {
		b = b.Where(sq.LtOrEq{"a.published_at": normalize.FormatTime(f.To)})
	}
	return b
}
