package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pribylovaa/news-radar/internal/heat"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage"
)

// ManualSource — имя источника для материалов, добавленных вручную.
const ManualSource = "Manual"

// ManualAdd синхронно добавляет материал по ссылке пользователя.
//
// Ошибки:
// - ErrInvalidArgument — ссылка не абсолютный http(s) URL;
// - ErrAlreadyExists — материал с таким каноническим URL уже есть или был удалён очисткой
//   (проверяется до загрузки);
// - ErrUnreachable — страница не загрузилась;
// - ErrUnparsable — страница загрузилась, но заголовок не извлекается.
func (s *Service) ManualAdd(ctx context.Context, rawURL string) (*models.Article, error) {
	const op = "service.manual.ManualAdd"

	lg := log.From(ctx)
	rawURL = strings.TrimSpace(rawURL)

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: url %q: %w", op, rawURL, ErrInvalidArgument)
	}

	canonical, err := normalize.CanonicalURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	known, err := s.storage.KnownURLs(ctx, []string{canonical})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if known[canonical] {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}

	raw, err := s.fetcher.FetchPage(ctx, rawURL)
	if err != nil {
		lg.Warn("manual_add_fetch_failed",
			slog.String("op", op),
			slog.String("url", canonical),
			slog.String("err", err.Error()),
		)
		if errors.Is(err, source.ErrNoContent) || errors.Is(err, source.ErrMalformed) {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrUnparsable, err)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnreachable, err)
	}

	now := s.clock()
	// Рубрика вручную добавленного материала — по эвристике.
	src := models.Source{Name: ManualSource, Weight: heat.WeightUnclassified}
	raw.Link = canonical

	a, ok := finalizeArticle(*raw, src, now, s.cfg.Fetcher.ContentBudget)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnparsable)
	}
	a.IsManual = true

	created, err := s.storage.InsertArticle(ctx, a)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Inserted(1)

	lg.Info("manual_add_ok",
		slog.String("op", op),
		slog.String("id", created.ID),
		slog.String("url", created.URL),
		slog.String("category", string(created.Category)),
	)

	return created, nil
}
