package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/news-radar/internal/heat"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/storage"
)

// MaxSearchResults — верхняя граница выдачи поиска.
const MaxSearchResults = 100

// ListArticles возвращает страницу материалов с нормализацией размера страницы по конфигу.
//
// Правила нормализации:
// - page_size <= 0 -> cfg.Limits.Default;
// - page_size > max -> cfg.Limits.Max;
// - page <= 0 -> 1.
//
// Ошибки:
// - ErrInvalidArgument — неизвестная рубрика или порядок сортировки;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) ListArticles(ctx context.Context, opts models.ListOptions) (*models.Page, error) {
	const op = "service.queries.ListArticles"

	lg := log.From(ctx)

	if opts.Category != "" && !opts.Category.Valid() {
		return nil, fmt.Errorf("%s: category %q: %w", op, opts.Category, ErrInvalidArgument)
	}
	switch opts.SortBy {
	case "", models.SortHeat, models.SortLatest:
	default:
		return nil, fmt.Errorf("%s: sort %q: %w", op, opts.SortBy, ErrInvalidArgument)
	}

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = s.cfg.Limits.Default
	}
	if s.cfg.Limits.Max > 0 && opts.PageSize > s.cfg.Limits.Max {
		opts.PageSize = s.cfg.Limits.Max
	}

	page, err := s.storage.ListArticles(ctx, opts)
	if err != nil {
		lg.Error("list_articles_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("list_articles_ok",
		slog.String("op", op),
		slog.Int("items", len(page.Items)),
		slog.Int("total", page.Total),
	)

	return page, nil
}

// ArticleByID возвращает материал по идентификатору.
//
// Ошибки:
// - ErrNotFound — если запись отсутствует (маппинг storage.ErrNotFound).
func (s *Service) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "service.queries.ArticleByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: empty id: %w", op, ErrInvalidArgument)
	}

	a, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		return nil, mapStorageErr(op, err)
	}
	return a, nil
}

// Search выполняет полнотекстовый поиск. Пустой запрос даёт пустую выдачу.
//
// Ошибки:
// - ErrInvalidArgument — неизвестная рубрика или From позже To.
func (s *Service) Search(ctx context.Context, text string, filter models.SearchFilter) ([]models.Article, error) {
	const op = "service.queries.Search"

	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Article{}, nil
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%s: category %q: %w", op, filter.Category, ErrInvalidArgument)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, fmt.Errorf("%s: from after to: %w", op, ErrInvalidArgument)
	}

	items, err := s.storage.SearchArticles(ctx, models.SearchQuery{Text: text, Filter: filter, Limit: MaxSearchResults})
	if err != nil {
		log.From(ctx).Error("search_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.Article{}
	}

	return items, nil
}

// SetBookmark включает или снимает закладку.
func (s *Service) SetBookmark(ctx context.Context, id string, value bool) error {
	const op = "service.queries.SetBookmark"

	if err := s.storage.SetBookmark(ctx, id, value); err != nil {
		return mapStorageErr(op, err)
	}
	return nil
}

// SetRead отмечает материал прочитанным или непрочитанным.
func (s *Service) SetRead(ctx context.Context, id string, value bool) error {
	const op = "service.queries.SetRead"

	if err := s.storage.SetRead(ctx, id, value); err != nil {
		return mapStorageErr(op, err)
	}
	return nil
}

// RecordClick учитывает переход по материалу и пересчитывает его heat.
func (s *Service) RecordClick(ctx context.Context, id string) (*models.Article, error) {
	const op = "service.queries.RecordClick"

	a, err := s.storage.IncrementClicks(ctx, id)
	if err != nil {
		return nil, mapStorageErr(op, err)
	}

	a.HeatScore = heat.Of(*a, s.clock())
	if err := s.storage.UpdateHeat(ctx, map[string]float64{a.ID: a.HeatScore}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// ListSources возвращает все настроенные источники.
func (s *Service) ListSources(ctx context.Context) ([]models.Source, error) {
	const op = "service.queries.ListSources"

	items, err := s.storage.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// SetSourceActive включает или выключает источник.
func (s *Service) SetSourceActive(ctx context.Context, name string, active bool) error {
	const op = "service.queries.SetSourceActive"

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s: empty name: %w", op, ErrInvalidArgument)
	}
	if err := s.storage.SetSourceActive(ctx, name, active); err != nil {
		return mapStorageErr(op, err)
	}

	log.From(ctx).Info("source_active_changed",
		slog.String("op", op),
		slog.String("source", name),
		slog.Bool("active", active),
	)
	return nil
}

// mapStorageErr переводит сторадж-сентинелы в сервисные.
func mapStorageErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
