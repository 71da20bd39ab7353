// source содержит адаптеры источников (Feed, API, Web, Headless) и оркестратор загрузки.
//
// Вид источника — закрытое перечисление models.SourceKind; диспетчеризация идёт
// одной функцией fetchOne, каждая ветка которой состоит из «загрузить сырое» и «разобрать».
// Разбор — чистые функции над байтами и не зависят от сети.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
)

var (
	// ErrStatus — источник ответил не-2xx статусом.
	ErrStatus = errors.New("unexpected status")
	// ErrNotFeed — по адресу ленты пришёл HTML (обычно страница антибот-защиты).
	ErrNotFeed = errors.New("not a feed")
	// ErrMalformed — ответ не разбирается как документ ожидаемого вида.
	ErrMalformed = errors.New("malformed response")
	// ErrNoRenderer — Headless-источник без настроенного рендерера.
	ErrNoRenderer = errors.New("renderer not configured")
	// ErrUnknownKind — вид источника вне закрытого набора.
	ErrUnknownKind = errors.New("unknown source kind")
)

// Options — параметры оркестратора.
type Options struct {
	// Concurrency — максимум одновременно загружаемых источников.
	Concurrency int
	// PerSourceCap — максимум кандидатов с одного источника.
	PerSourceCap int
	// SourceTimeout — таймаут загрузки и разбора одного источника.
	SourceTimeout time.Duration
	// UserAgent — заголовок User-Agent исходящих запросов.
	UserAgent string
	// MaxBodyBytes — предел размера ответа.
	MaxBodyBytes int64
}

const (
	defaultConcurrency  = 3
	defaultPerSourceCap = 12
	defaultTimeout      = 20 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (compatible; news-radar/1.0)"
	defaultMaxBody      = 8 << 20
)

// Result — исход загрузки одного источника.
// Если Err != nil, Items пуст.
type Result struct {
	Source  models.Source
	Items   []models.RawContent
	Skipped int
	Err     error
	Elapsed time.Duration
}

// Fetcher загружает и разбирает источники.
//
// HTTP-клиент настраивается извне (прокси, транспорт); таймауты задаются
// через контекст на каждый источник.
type Fetcher struct {
	client     *http.Client
	renderer   Renderer
	strategies *Registry
	opts       Options
}

// New создаёт Fetcher. renderer может быть nil — тогда Headless-источники завершаются ErrNoRenderer.
func New(client *http.Client, renderer Renderer, opts Options) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.PerSourceCap <= 0 {
		opts.PerSourceCap = defaultPerSourceCap
	}
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}

	return &Fetcher{
		client:     client,
		renderer:   renderer,
		strategies: DefaultRegistry(),
		opts:       opts,
	}
}

// FetchMany загружает источники конкурентно, не более opts.Concurrency одновременно,
// и отдаёт по одному Result на каждый источник, после чего закрывает канал.
// Порядок результатов не гарантируется.
//
// Отмена ctx прекращает запуск новых загрузок: оставшиеся источники получают
// Result с ошибкой контекста, уже запущенные завершаются по своему контексту.
func (f *Fetcher) FetchMany(ctx context.Context, sources []models.Source) <-chan Result {
	output := make(chan Result, len(sources))

	go func() {
		defer close(output)

		sem := make(chan struct{}, f.opts.Concurrency)
		done := make(chan struct{}, len(sources))
		started := 0

	loop:
		for i, src := range sources {
			select {
			case <-ctx.Done():
				for _, rest := range sources[i:] {
					output <- Result{Source: rest, Err: fmt.Errorf("not started: %w", ctx.Err())}
				}
				break loop
			case sem <- struct{}{}:
			}

			started++
			go func(src models.Source) {
				defer func() {
					<-sem
					done <- struct{}{}
				}()

				output <- f.fetchSource(ctx, src)
			}(src)
		}

		for i := 0; i < started; i++ {
			<-done
		}
	}()

	return output
}

// fetchSource — загрузка одного источника со своим таймаутом.
func (f *Fetcher) fetchSource(ctx context.Context, src models.Source) Result {
	const op = "source.fetchSource"

	ctx, cancel := context.WithTimeout(ctx, f.opts.SourceTimeout)
	defer cancel()

	start := time.Now()
	items, skipped, err := f.fetchOne(ctx, src)
	res := Result{Source: src, Items: items, Skipped: skipped, Err: err, Elapsed: time.Since(start)}

	lg := log.From(ctx)
	if err != nil {
		res.Items = nil
		lg.Warn("source_fetch_failed",
			slog.String("op", op),
			slog.String("source", src.Name),
			slog.String("kind", string(src.Kind)),
			slog.Duration("elapsed", res.Elapsed),
			slog.String("err", err.Error()),
		)
		return res
	}

	if skipped > 0 {
		lg.Debug("source_entries_skipped",
			slog.String("op", op),
			slog.String("source", src.Name),
			slog.Int("skipped", skipped),
		)
	}

	return res
}

// fetchOne — единая точка диспетчеризации по виду источника.
func (f *Fetcher) fetchOne(ctx context.Context, src models.Source) ([]models.RawContent, int, error) {
	limit := f.opts.PerSourceCap

	switch src.Kind {
	case models.KindFeed:
		raw, err := f.get(ctx, src.URL, acceptFeed)
		if err != nil {
			return nil, 0, err
		}
		return ParseFeed(raw, limit)

	case models.KindAPI:
		raw, err := f.get(ctx, src.URL, acceptJSON)
		if err != nil {
			return nil, 0, err
		}
		return ParseAPI(raw, limit)

	case models.KindWeb:
		raw, err := f.get(ctx, src.URL, acceptHTML)
		if err != nil {
			return nil, 0, err
		}
		return f.extract(raw, src, limit)

	case models.KindHeadless:
		if f.renderer == nil {
			return nil, 0, ErrNoRenderer
		}
		html, err := f.renderer.Render(ctx, src.URL)
		if err != nil {
			return nil, 0, fmt.Errorf("render: %w", err)
		}
		return f.extract([]byte(html), src, limit)

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKind, src.Kind)
	}
}
