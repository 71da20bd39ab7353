package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-radar/internal/heat"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
)

// RunCycle выполняет один цикл загрузки: активные источники → конкурентная загрузка →
// нормализация → дедупликация → вставка → пересчёт heat.
//
// Особенности:
//   - циклы не пересекаются: пока идёт цикл, повторный вызов получает ErrCycleRunning;
//   - общий таймаут цикла ограничивает загрузку, уже собранные результаты сохраняются;
//   - сбой источника учитывается в FailedSources и не влияет на остальные;
//   - last_fetch_at обновляется для каждого опрошенного источника, в том числе упавшего;
//   - при настроенной модели новые материалы получают AI-summary в пределах того же таймаута,
//     остальные остаются с шаблонным.
func (s *Service) RunCycle(ctx context.Context) (models.CycleResult, error) {
	const op = "service.cycle.RunCycle"

	if !s.cycleRunning.CompareAndSwap(false, true) {
		return models.CycleResult{}, fmt.Errorf("%s: %w", op, ErrCycleRunning)
	}
	defer s.cycleRunning.Store(false)

	lg := log.From(ctx)
	started := time.Now()
	now := s.clock()

	sources, err := s.storage.ActiveSources(ctx, s.cfg.Fetcher.MaxSources)
	if err != nil {
		s.metrics.Cycle("error", time.Since(started))
		return models.CycleResult{}, fmt.Errorf("%s: active_sources: %w", op, err)
	}

	lg.Info("cycle_start",
		slog.String("op", op),
		slog.Int("sources", len(sources)),
	)

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.Fetcher.CycleTimeout)
	defer cancel()

	// Запись результатов не должна обрываться таймаутом загрузки.
	commitCtx := context.WithoutCancel(ctx)

	var (
		res        models.CycleResult
		candidates []models.Article
		okSources  int
	)
	for r := range s.fetcher.FetchMany(fetchCtx, sources) {
		if err := s.storage.TouchSource(commitCtx, r.Source.Name, now); err != nil {
			lg.Warn("source_touch_failed",
				slog.String("op", op),
				slog.String("source", r.Source.Name),
				slog.String("err", err.Error()),
			)
		}
		s.metrics.SourceFetch(string(r.Source.Kind), r.Err == nil)

		if r.Err != nil {
			res.FailedSources++
			continue
		}
		okSources++

		for _, raw := range r.Items {
			if a, ok := finalizeArticle(raw, r.Source, now, s.cfg.Fetcher.ContentBudget); ok {
				candidates = append(candidates, a)
			}
		}
	}
	timedOut := errors.Is(fetchCtx.Err(), context.DeadlineExceeded)

	fresh, err := s.dedup(commitCtx, candidates)
	if err != nil {
		s.metrics.Cycle("error", time.Since(started))
		return res, fmt.Errorf("%s: dedup: %w", op, err)
	}

	s.summarizeFresh(fetchCtx, fresh)

	inserted, err := s.storage.InsertArticles(commitCtx, fresh)
	if err != nil {
		s.metrics.Cycle("error", time.Since(started))
		return res, fmt.Errorf("%s: insert: %w", op, err)
	}
	res.Inserted = len(inserted)
	s.metrics.Inserted(res.Inserted)

	if err := s.RecomputeHeat(commitCtx); err != nil {
		lg.Warn("heat_recompute_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	result := "ok"
	switch {
	case timedOut:
		result = "timeout"
	case res.FailedSources > 0 && okSources == 0:
		result = "failed"
	case res.FailedSources > 0:
		result = "partial"
	}
	s.metrics.Cycle(result, time.Since(started))

	lg.Info("cycle_done",
		slog.String("op", op),
		slog.String("result", result),
		slog.Int("candidates", len(candidates)),
		slog.Int("inserted", res.Inserted),
		slog.Int("failed_sources", res.FailedSources),
		slog.Duration("elapsed", time.Since(started)),
	)

	return res, nil
}

// dedup убирает повторы внутри пачки и уже известные корпусу URL.
func (s *Service) dedup(ctx context.Context, items []models.Article) ([]models.Article, error) {
	if len(items) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(items))
	unique := make([]models.Article, 0, len(items))
	urls := make([]string, 0, len(items))
	for _, a := range items {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		seen[a.URL] = struct{}{}
		unique = append(unique, a)
		urls = append(urls, a.URL)
	}

	known, err := s.storage.KnownURLs(ctx, urls)
	if err != nil {
		return nil, err
	}

	fresh := unique[:0]
	for _, a := range unique {
		if !known[a.URL] {
			fresh = append(fresh, a)
		}
	}
	return fresh, nil
}

// summarizeFresh заменяет шаблонные summary новых материалов ответами модели.
// Сбой модели оставляет шаблон; истечение ctx прекращает обход.
func (s *Service) summarizeFresh(ctx context.Context, items []models.Article) {
	const op = "service.cycle.summarizeFresh"

	if len(items) == 0 || ctx.Err() != nil {
		return
	}

	lg := log.From(ctx)

	settings, err := s.current(ctx)
	if err != nil {
		lg.Warn("cycle_summaries_skipped",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}
	if !settings.AIConfigured() {
		return
	}

	summarizer := s.newSummarizer(settings)
	pace := newPacer(s.cfg.AI.RateInterval)
	defer pace.stop()

	var ai, fallback int
	for i := range items {
		if i > 0 {
			pace.wait(ctx)
		}
		if ctx.Err() != nil {
			break
		}

		text, kind, err := s.summarizeOne(ctx, summarizer, items[i])
		if kind == "" {
			break
		}
		if kind == models.SummaryTemplate {
			fallback++
			s.metrics.Summary("fallback")
			lg.Warn("summary_fallback",
				slog.String("op", op),
				slog.String("url", items[i].URL),
				slog.String("err", err.Error()),
			)
			continue
		}

		items[i].Summary = text
		items[i].SummaryKind = models.SummaryAI
		ai++
		s.metrics.Summary("ai")
	}

	lg.Info("cycle_summaries_done",
		slog.String("op", op),
		slog.Int("total", len(items)),
		slog.Int("ai", ai),
		slog.Int("fallback", fallback),
	)
}

// RecomputeHeat пересчитывает heat всех неархивных материалов на текущий момент.
func (s *Service) RecomputeHeat(ctx context.Context) error {
	const op = "service.cycle.RecomputeHeat"

	items, err := s.storage.HeatCandidates(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(items) == 0 {
		return nil
	}

	now := s.clock()
	scores := make(map[string]float64, len(items))
	for _, a := range items {
		scores[a.ID] = heat.Of(a, now)
	}

	if err := s.storage.UpdateHeat(ctx, scores); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
