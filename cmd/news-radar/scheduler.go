package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/pribylovaa/news-radar/internal/config"
	"github.com/pribylovaa/news-radar/internal/models"
	logctx "github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/service"
)

// jobs — фоновые операции, запускаемые по расписанию.
type jobs interface {
	RunCycle(ctx context.Context) (models.CycleResult, error)
	Cleanup(ctx context.Context) (models.CleanupResult, error)
}

// startScheduler регистрирует цикл загрузки и очистку в cron и запускает его.
// Пустое расписание отключает задачу. Пересекающиеся запуски одной задачи пропускаются.
func startScheduler(ctx context.Context, svc jobs, cfg config.SchedulerConfig, log *slog.Logger) (*cron.Cron, error) {
	const op = "main.startScheduler"

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{log}),
		cron.SkipIfStillRunning(cronLogger{log}),
	))

	if cfg.Ingest != "" {
		if _, err := c.AddFunc(cfg.Ingest, func() { runIngest(ctx, svc, log) }); err != nil {
			return nil, fmt.Errorf("%s: ingest %q: %w", op, cfg.Ingest, err)
		}
	}
	if cfg.Cleanup != "" {
		if _, err := c.AddFunc(cfg.Cleanup, func() { runCleanup(ctx, svc, log) }); err != nil {
			return nil, fmt.Errorf("%s: cleanup %q: %w", op, cfg.Cleanup, err)
		}
	}

	c.Start()
	log.Info("scheduler_started",
		slog.String("ingest", cfg.Ingest),
		slog.String("cleanup", cfg.Cleanup),
	)

	return c, nil
}

func runIngest(ctx context.Context, svc jobs, log *slog.Logger) {
	ctx = logctx.Into(ctx, log.With(slog.String("job", "ingest"), slog.String("cycle_id", uuid.NewString())))

	if _, err := svc.RunCycle(ctx); err != nil {
		if errors.Is(err, service.ErrCycleRunning) {
			logctx.From(ctx).Info("ingest_skipped", slog.String("reason", "cycle running"))
			return
		}
		logctx.From(ctx).Error("ingest_failed", slog.String("err", err.Error()))
	}
}

func runCleanup(ctx context.Context, svc jobs, log *slog.Logger) {
	ctx = logctx.Into(ctx, log.With(slog.String("job", "cleanup")))

	if _, err := svc.Cleanup(ctx); err != nil {
		logctx.From(ctx).Error("cleanup_failed", slog.String("err", err.Error()))
	}
}

// cronLogger — cron.Logger поверх slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron_"+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron_"+msg, append(keysAndValues, "err", err)...)
}
