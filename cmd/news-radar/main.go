package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/news-radar/internal/config"
	"github.com/pribylovaa/news-radar/internal/metrics"
	"github.com/pribylovaa/news-radar/internal/search"
	"github.com/pribylovaa/news-radar/internal/service"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage/sqlite"
	httptransport "github.com/pribylovaa/news-radar/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	tok := search.NewTokenizer(newSegmenter(log))

	// Открытие БД и миграция схемы c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := sqlite.New(dbCtx, cfg.DB.Path, tok)
	dbCancel()
	if err != nil {
		log.Error("sqlite_open_failed",
			slog.String("path", cfg.DB.Path),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
	log.Info("sqlite_opened", slog.String("path", cfg.DB.Path))

	client, err := source.NewHTTPClient(cfg.Fetcher.Proxy)
	if err != nil {
		log.Error("http_client_failed", slog.String("err", err.Error()))
		str.Close()
		os.Exit(1)
	}

	fetcher := source.New(client, source.NewHTTPRenderer(cfg.Renderer.URL, cfg.Renderer.Timeout), source.Options{
		Concurrency:   cfg.Fetcher.Concurrency,
		PerSourceCap:  cfg.Fetcher.PerSourceCap,
		SourceTimeout: cfg.Fetcher.SourceTimeout,
		UserAgent:     cfg.Fetcher.UserAgent,
	})

	m := metrics.New(prometheus.DefaultRegisterer)

	// Сервис.
	srvc := service.New(str, fetcher, *cfg,
		service.WithMetrics(m),
		service.WithAIClient(client),
	)

	seeded, err := srvc.EnsureSeeded(rootCtx)
	if err != nil {
		log.Error("seed_sources_failed", slog.String("err", err.Error()))
		str.Close()
		os.Exit(1)
	}
	log.Info("service_initialized", slog.Int("seeded_sources", seeded))

	var ready int32 // 0 — not ready; 1 — ready

	root := chi.NewRouter()
	root.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", httptransport.NewRouter(srvc, httptransport.Options{
		Logger:   log,
		Metrics:  m,
		Timeout:  cfg.Timeouts.Service,
		BasePath: "/api",
	}))

	// Без WriteTimeout: поток SSE регенерации summary.
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sched, err := startScheduler(rootCtx, srvc, cfg.Scheduler, log)
	if err != nil {
		log.Error("scheduler_failed", slog.String("err", err.Error()))
		str.Close()
		os.Exit(1)
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()
	atomic.StoreInt32(&ready, 1)

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}
	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	}

	select {
	case <-sched.Stop().Done():
		log.Info("scheduler_stopped")
	case <-shutdownCtx.Done():
		log.Warn("scheduler_force_stop")
	}

	str.Close()

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}

// newSegmenter — словарный сегментатор gse; при ошибке загрузки словаря — биграммы.
func newSegmenter(log *slog.Logger) search.Segmenter {
	seg, err := search.NewGseSegmenter()
	if err != nil {
		log.Warn("gse_dictionary_failed",
			slog.String("fallback", "bigram"),
			slog.String("err", err.Error()),
		)
		return search.BigramSegmenter{}
	}
	return seg
}
