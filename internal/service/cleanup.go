package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
)

// Cleanup выполняет очистку по действующим порогам:
//   - архивирует материалы старше CleanupMaxAge (0 — не архивировать);
//   - удаляет материалы с heat ниже CleanupHeatFloor, загруженные раньше CleanupGrace;
//   - удаляет самые старые материалы сверх MaxArticles (0 — без ограничения).
//
// Закладки не архивируются и не удаляются.
func (s *Service) Cleanup(ctx context.Context) (models.CleanupResult, error) {
	const op = "service.cleanup.Cleanup"

	var res models.CleanupResult

	settings, err := s.current(ctx)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock()

	if settings.CleanupMaxAge > 0 {
		if res.Archived, err = s.storage.Archive(ctx, now.Add(-settings.CleanupMaxAge)); err != nil {
			return res, fmt.Errorf("%s: archive: %w", op, err)
		}
	}

	// Порог сравнивается со свежим heat, а не с оценкой момента вставки.
	if err := s.RecomputeHeat(ctx); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	if res.Purged, err = s.storage.PurgeCold(ctx, settings.CleanupHeatFloor, now.Add(-settings.CleanupGrace)); err != nil {
		return res, fmt.Errorf("%s: purge: %w", op, err)
	}

	if settings.MaxArticles > 0 {
		if res.Trimmed, err = s.storage.TrimToCap(ctx, settings.MaxArticles); err != nil {
			return res, fmt.Errorf("%s: trim: %w", op, err)
		}
	}

	log.From(ctx).Info("cleanup_done",
		slog.String("op", op),
		slog.Int("archived", res.Archived),
		slog.Int("purged", res.Purged),
		slog.Int("trimmed", res.Trimmed),
	)

	return res, nil
}
