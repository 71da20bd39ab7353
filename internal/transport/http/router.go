// http собирает HTTP-поверхность news-radar: chi-роутер, middleware и хендлеры под /api.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-radar/internal/metrics"
	"github.com/pribylovaa/news-radar/internal/transport/http/handlers"
	"github.com/pribylovaa/news-radar/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Timeout — дедлайн обычных запросов. Долгие операции (цикл загрузки, поток
	// регенерации summary) ограничены собственными таймаутами сервиса.
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
	)

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts.Timeout)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts.Timeout)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, timeout time.Duration) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// articles
		r.Get("/articles", h.ListArticles)
		r.Post("/articles", h.ManualAdd)
		r.Get("/articles/{id}", h.GetArticle)
		r.Put("/articles/{id}/bookmark", h.SetBookmark)
		r.Put("/articles/{id}/read", h.SetRead)
		r.Post("/articles/{id}/click", h.RecordClick)

		// search
		r.Get("/search", h.Search)

		// settings
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		// sources
		r.Get("/sources", h.ListSources)
		r.Put("/sources/{name}/active", h.SetSourceActive)

		// maintenance
		r.Post("/cleanup", h.Cleanup)
	})

	// Без общего дедлайна: длительность определяется таймаутами загрузки и модели.
	r.Post("/cycles", h.RunCycle)
	r.Post("/articles/{id}/summary", h.SummarizeArticle)
	r.Post("/summaries/regenerate", h.RegenerateSummaries)
}
