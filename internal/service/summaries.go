package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/summarize"
)

// ProgressFunc получает снимки прогресса пакетной регенерации.
// Вызывается синхронно из цикла пакета.
type ProgressFunc func(models.SummaryProgress)

// RegenerateSummaries переписывает шаблонные и пустые summary ответами модели.
//
// Особенности:
//   - вызовы модели не чаще одного за cfg.AI.RateInterval;
//   - повтор с экспоненциальной задержкой, после исчерпания попыток — шаблонное summary;
//   - ошибка записи одного материала не прерывает пакет;
//   - отмена ctx останавливает пакет между материалами, событие complete отправляется
//     с фактическими счётчиками, а вызов возвращает ошибку контекста;
//   - одновременно выполняется не более одного пакета (ErrBatchRunning).
//
// Ошибки:
// - ErrAINotConfigured — не заданы base URL, ключ или модель, либо summary отключены.
func (s *Service) RegenerateSummaries(ctx context.Context, progress ProgressFunc) (models.SummaryProgress, error) {
	const op = "service.summaries.RegenerateSummaries"

	if progress == nil {
		progress = func(models.SummaryProgress) {}
	}

	if !s.batchRunning.CompareAndSwap(false, true) {
		return models.SummaryProgress{}, fmt.Errorf("%s: %w", op, ErrBatchRunning)
	}
	defer s.batchRunning.Store(false)

	lg := log.From(ctx)

	settings, err := s.current(ctx)
	if err != nil {
		return models.SummaryProgress{}, fmt.Errorf("%s: %w", op, err)
	}
	if !settings.AIConfigured() {
		return models.SummaryProgress{}, fmt.Errorf("%s: %w", op, ErrAINotConfigured)
	}

	targets, err := s.storage.SummaryTargets(ctx)
	if err != nil {
		return models.SummaryProgress{}, fmt.Errorf("%s: targets: %w", op, err)
	}

	summarizer := s.newSummarizer(settings)
	state := models.SummaryProgress{Total: len(targets)}

	emit := func(kind models.ProgressKind) {
		snap := state
		snap.Kind = kind
		progress(snap)
	}

	lg.Info("summaries_start",
		slog.String("op", op),
		slog.Int("total", state.Total),
	)
	emit(models.ProgressStart)

	pace := newPacer(s.cfg.AI.RateInterval)
	defer pace.stop()

	var stopErr error
	for i, a := range targets {
		if i > 0 {
			pace.wait(ctx)
		}
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		state.Current = i + 1
		state.Title = a.Title

		text, kind, err := s.summarizeOne(ctx, summarizer, a)
		if kind == "" {
			stopErr = err
			break
		}
		if err != nil {
			state.LastError = err.Error()
			lg.Warn("summary_fallback",
				slog.String("op", op),
				slog.String("id", a.ID),
				slog.String("err", err.Error()),
			)
		}

		if werr := s.storage.UpdateSummary(context.WithoutCancel(ctx), a.ID, text, kind); werr != nil {
			state.LastError = werr.Error()
			lg.Warn("summary_write_failed",
				slog.String("op", op),
				slog.String("id", a.ID),
				slog.String("err", werr.Error()),
			)
		} else if kind == models.SummaryAI {
			state.Updated++
			s.metrics.Summary("ai")
		} else {
			state.Fallback++
			s.metrics.Summary("fallback")
		}

		state.Processed++
		emit(models.ProgressItem)
	}

	state.Title = ""
	emit(models.ProgressComplete)

	lg.Info("summaries_done",
		slog.String("op", op),
		slog.Int("total", state.Total),
		slog.Int("processed", state.Processed),
		slog.Int("updated", state.Updated),
		slog.Int("fallback", state.Fallback),
		slog.Bool("canceled", stopErr != nil),
	)

	if stopErr != nil {
		return state, fmt.Errorf("%s: %w", op, stopErr)
	}
	return state, nil
}

// summarizeOne — summary от модели или шаблон с ошибкой модели.
// Отмена контекста возвращается как есть, без шаблона.
func (s *Service) summarizeOne(ctx context.Context, sum summarize.Summarizer, a models.Article) (string, models.SummaryKind, error) {
	text, err := sum.Summarize(ctx, a.Title, a.Content)
	if err == nil {
		return text, models.SummaryAI, nil
	}
	if ctx.Err() != nil {
		return "", "", ctx.Err()
	}
	return summarize.Template(a.Title, a.Content), models.SummaryTemplate, err
}

// SummarizeArticle запрашивает у модели summary одного материала и сохраняет его.
// В отличие от пакета шаблон не подставляется: ошибка модели возвращается вызывающему.
//
// Ошибки:
// - ErrInvalidArgument — пустой id;
// - ErrNotFound — материала нет;
// - ErrAINotConfigured — не заданы base URL, ключ или модель, либо summary отключены;
// - ErrUnreachable — модель не ответила после всех попыток.
func (s *Service) SummarizeArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "service.summaries.SummarizeArticle"

	a, err := s.ArticleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := s.current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !settings.AIConfigured() {
		return nil, fmt.Errorf("%s: %w", op, ErrAINotConfigured)
	}

	text, err := s.newSummarizer(settings).Summarize(ctx, a.Title, a.Content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		s.metrics.Summary("error")
		return nil, fmt.Errorf("%s: %w: %v", op, ErrUnreachable, err)
	}

	if err := s.storage.UpdateSummary(ctx, a.ID, text, models.SummaryAI); err != nil {
		return nil, mapStorageErr(op, err)
	}
	s.metrics.Summary("ai")

	log.From(ctx).Info("summary_generated",
		slog.String("op", op),
		slog.String("id", a.ID),
	)

	a.Summary = text
	a.SummaryKind = models.SummaryAI
	return a, nil
}

// pacer выдерживает интервал между вызовами модели; нулевой интервал отключает паузы.
type pacer struct {
	ticker *time.Ticker
}

func newPacer(interval time.Duration) *pacer {
	if interval <= 0 {
		return &pacer{}
	}
	return &pacer{ticker: time.NewTicker(interval)}
}

// wait ждёт следующего тика или отмены ctx.
func (p *pacer) wait(ctx context.Context) {
	if p.ticker == nil {
		return
	}
	select {
	case <-ctx.Done():
	case <-p.ticker.C:
	}
}

func (p *pacer) stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
