// service содержит бизнес-логику news-radar: цикл загрузки, ручное добавление,
// выдачу, поиск, настройки, пакетную регенерацию summary и очистку.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pribylovaa/news-radar/internal/config"
	"github.com/pribylovaa/news-radar/internal/metrics"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage"
	"github.com/pribylovaa/news-radar/internal/summarize"
)

var (
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists — материал с таким каноническим URL уже есть.
	// Транспорт: 409.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnreachable — страница не загрузилась (сеть, статус, таймаут).
	// Транспорт: 502.
	ErrUnreachable = errors.New("unreachable")
	// ErrUnparsable — страница загрузилась, но извлечь материал не удалось.
	// Транспорт: 422.
	ErrUnparsable = errors.New("unparsable")
	// ErrCycleRunning — цикл загрузки уже выполняется.
	// Транспорт: 409.
	ErrCycleRunning = errors.New("ingestion cycle already running")
	// ErrBatchRunning — регенерация summary уже выполняется.
	// Транспорт: 409.
	ErrBatchRunning = errors.New("summary batch already running")
	// ErrAINotConfigured — для регенерации нужны base URL, ключ и модель.
	// Транспорт: 412.
	ErrAINotConfigured = errors.New("ai summarization is not configured")
)

// Fetcher — загрузка источников и одиночных страниц.
type Fetcher interface {
	FetchMany(ctx context.Context, sources []models.Source) <-chan source.Result
	FetchPage(ctx context.Context, pageURL string) (*models.RawContent, error)
}

// SummarizerFactory строит клиента модели под текущие настройки.
type SummarizerFactory func(models.Settings) summarize.Summarizer

// Service — описывает бизнес-логику news-radar.
type Service struct {
	storage storage.Storage
	fetcher Fetcher
	cfg     config.Config
	metrics *metrics.Metrics

	aiClient      *http.Client
	newSummarizer SummarizerFactory
	now           func() time.Time

	// settings — единственная копия в памяти; nil до первой загрузки.
	mu       sync.RWMutex
	settings *models.Settings

	cycleRunning atomic.Bool
	batchRunning atomic.Bool
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает prometheus-коллекторы.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAIClient задаёт HTTP-клиент для обращений к модели (прокси, транспорт).
func WithAIClient(hc *http.Client) Option {
	return func(s *Service) { s.aiClient = hc }
}

// WithSummarizerFactory подменяет построение клиента модели.
func WithSummarizerFactory(f SummarizerFactory) Option {
	return func(s *Service) { s.newSummarizer = f }
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New создает новый экземпляр Service.
func New(st storage.Storage, fetcher Fetcher, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		storage: st,
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
	}
	s.newSummarizer = s.defaultSummarizer

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) defaultSummarizer(st models.Settings) summarize.Summarizer {
	client := summarize.NewClient(summarize.Config{
		BaseURL:   st.AIBaseURL,
		APIKey:    st.AIAPIKey,
		Model:     st.AIModel,
		Timeout:   s.cfg.AI.Timeout,
		MaxInput:  s.cfg.AI.MaxInput,
		MaxTokens: s.cfg.AI.MaxTokens,
	}, s.aiClient)

	return summarize.NewRetrying(client, s.cfg.AI.Attempts, s.cfg.AI.BackoffInitial)
}

// EnsureSeeded заполняет таблицу источников набором по умолчанию (существующие не трогаются).
func (s *Service) EnsureSeeded(ctx context.Context) (int, error) {
	const op = "service.EnsureSeeded"

	n, err := s.storage.SeedSources(ctx, source.DefaultSources())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
