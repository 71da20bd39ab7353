package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/config"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/search"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage/sqlite"
)

var fixedNow = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

// testConfig — конфигурация с документированными значениями по умолчанию и без задержек.
func testConfig() config.Config {
	return config.Config{
		Fetcher: config.FetcherConfig{
			Concurrency:   3,
			MaxSources:    20,
			PerSourceCap:  12,
			SourceTimeout: time.Second,
			CycleTimeout:  5 * time.Second,
			ContentBudget: 2000,
		},
		AI: config.AIConfig{
			Model:          "qwen3-max",
			Attempts:       1,
			BackoffInitial: time.Millisecond,
		},
		Cleanup: config.CleanupConfig{
			MaxAge:      720 * time.Hour,
			Grace:       48 * time.Hour,
			MaxArticles: 300,
		},
		Limits: config.LimitsConfig{Default: 20, Max: 100},
	}
}

// stubFetcher — Fetcher с заранее заданными результатами.
type stubFetcher struct {
	mu       sync.Mutex
	results  []source.Result
	requests [][]models.Source
	// block — если не nil, FetchMany ждёт закрытия канала или отмены ctx.
	block chan struct{}

	page     *models.RawContent
	pageErr  error
	pageURLs []string
}

func (f *stubFetcher) FetchMany(ctx context.Context, sources []models.Source) <-chan source.Result {
	f.mu.Lock()
	f.requests = append(f.requests, append([]models.Source(nil), sources...))
	results := append([]source.Result(nil), f.results...)
	block := f.block
	f.mu.Unlock()

	ch := make(chan source.Result, len(results))
	go func() {
		defer close(ch)
		if block != nil {
			select {
			case <-block:
			case <-ctx.Done():
			}
		}
		for _, r := range results {
			ch <- r
		}
	}()
	return ch
}

func (f *stubFetcher) FetchPage(_ context.Context, pageURL string) (*models.RawContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageURLs = append(f.pageURLs, pageURL)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	p := *f.page
	return &p, nil
}

func (f *stubFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newSQLiteService — сервис поверх настоящего SQLite во временном каталоге.
func newSQLiteService(t *testing.T, f Fetcher, opts ...Option) (*Service, *sqlite.Storage) {
	t.Helper()

	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "radar.db"), search.NewTokenizer(search.BigramSegmenter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(st, f, testConfig(), opts...), st
}
