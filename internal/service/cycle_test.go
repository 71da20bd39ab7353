package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage"
	"github.com/pribylovaa/news-radar/internal/summarize"
	"github.com/pribylovaa/news-radar/mocks"
)

var cycleSources = []models.Source{
	{Name: "Feed A", URL: "https://a.example/rss", Kind: models.KindFeed, Category: models.CategoryTech, IsActive: true, Priority: 3, Weight: 1.0},
	{Name: "API B", URL: "https://b.example/api", Kind: models.KindAPI, Category: models.CategoryResearch, IsActive: true, Priority: 2, Weight: 0.9},
	{Name: "Broken C", URL: "https://c.example/rss", Kind: models.KindFeed, Category: models.CategoryTech, IsActive: true, Priority: 1, Weight: 0.6},
}

func cycleResults() []source.Result {
	return []source.Result{
		{Source: cycleSources[0], Items: []models.RawContent{
			{Title: "Go 1.25 released", Link: "https://a.example/go-125?utm_source=rss", Body: "<p>Release notes</p>", Published: "Tue, 16 Sep 2025 10:00:00 GMT"},
			{Title: "Go 1.25 released (dup)", Link: "HTTPS://A.example/go-125/", Published: "2025-09-16T10:00:00Z"},
			{Title: "No link"},
			{Title: "  ", Link: "https://a.example/blank"},
		}},
		{Source: cycleSources[1], Items: []models.RawContent{
			{Title: "大模型推理优化", Link: "https://b.example/llm", Body: "研究论文", Published: "1758016800", Engagement: models.Engagement{Likes: 10}},
		}},
		{Source: cycleSources[2], Err: source.ErrNotFeed},
	}
}

func TestRunCycle_PartialFailureAndIdempotence(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{results: cycleResults()}
	svc, st := newSQLiteService(t, f)
	ctx := context.Background()

	_, err := st.SeedSources(ctx, cycleSources)
	require.NoError(t, err)

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Inserted)
	require.Equal(t, 1, res.FailedSources)

	// Повтор с теми же данными ничего не добавляет.
	res, err = svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Inserted)
	require.Equal(t, 1, res.FailedSources)

	page, err := st.ListArticles(ctx, models.ListOptions{Page: 1, PageSize: 10, SortBy: models.SortLatest})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	byURL := map[string]models.Article{}
	for _, a := range page.Items {
		byURL[a.URL] = a
	}

	goArt, ok := byURL["https://a.example/go-125"]
	require.True(t, ok, "canonical url without tracking params and trailing slash")
	require.Equal(t, "Go 1.25 released", goArt.Title)
	require.Equal(t, "Release notes", goArt.Content)
	require.Equal(t, models.CategoryTech, goArt.Category)
	require.Equal(t, models.SummaryTemplate, goArt.SummaryKind)
	require.NotEmpty(t, goArt.Summary)
	require.Contains(t, goArt.ImageURL, "picsum.photos")
	require.Equal(t, time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC), goArt.PublishedAt)
	require.Equal(t, fixedNow, goArt.FetchedAt)

	llm := byURL["https://b.example/llm"]
	require.Equal(t, models.CategoryResearch, llm.Category)
	require.Equal(t, int64(10), llm.Engagement.Likes)

	// Поиск видит вставленное сразу.
	found, err := svc.Search(ctx, "推理", models.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// last_fetch_at обновлён у всех опрошенных источников, включая упавший.
	srcs, err := svc.ListSources(ctx)
	require.NoError(t, err)
	for _, s := range srcs {
		require.Equal(t, fixedNow, s.LastFetchAt, s.Name)
	}
}

func TestRunCycle_NoOverlap(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{block: make(chan struct{})}
	svc, st := newSQLiteService(t, f)
	ctx := context.Background()

	_, err := st.SeedSources(ctx, cycleSources[:1])
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunCycle(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return f.calls() == 1 }, time.Second, 5*time.Millisecond)

	_, err = svc.RunCycle(ctx)
	require.ErrorIs(t, err, ErrCycleRunning)

	close(f.block)
	require.NoError(t, <-done)

	// Guard освобождён.
	_, err = svc.RunCycle(ctx)
	require.NoError(t, err)
}

func TestRunCycle_TimeoutCommitsCollected(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{
		block:   make(chan struct{}),
		results: cycleResults()[:1],
	}
	svc, st := newSQLiteService(t, f)
	svc.cfg.Fetcher.CycleTimeout = 20 * time.Millisecond
	ctx := context.Background()

	_, err := st.SeedSources(ctx, cycleSources[:1])
	require.NoError(t, err)

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Inserted)
}

// TestRunCycle_SummarizesFreshWithAI — новые материалы получают AI-summary, сбой модели оставляет шаблон.
func TestRunCycle_SummarizesFreshWithAI(t *testing.T) {
	t.Parallel()

	sum := &scriptedSummarizer{errs: map[string]error{"大模型推理优化": errors.New("upstream 503")}}
	f := &stubFetcher{results: cycleResults()}
	svc, st := newSQLiteService(t, f, WithSummarizerFactory(func(models.Settings) summarize.Summarizer { return sum }))
	aiConfig(svc)
	ctx := context.Background()

	_, err := st.SeedSources(ctx, cycleSources)
	require.NoError(t, err)

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Inserted)
	require.Equal(t, []string{"Go 1.25 released", "大模型推理优化"}, sum.calls, "дубликат не отправляется в модель")

	page, err := st.ListArticles(ctx, models.ListOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)

	byURL := map[string]models.Article{}
	for _, a := range page.Items {
		byURL[a.URL] = a
	}

	goArt := byURL["https://a.example/go-125"]
	require.Equal(t, models.SummaryAI, goArt.SummaryKind)
	require.Equal(t, "AI: Go 1.25 released", goArt.Summary)

	llm := byURL["https://b.example/llm"]
	require.Equal(t, models.SummaryTemplate, llm.SummaryKind)
	require.Equal(t, summarize.Template(llm.Title, llm.Content), llm.Summary)

	// Уже известные материалы модель повторно не получает.
	_, err = svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Len(t, sum.calls, 2)
}

// TestRunCycle_SummariesBoundedByCycleTimeout — модель вызывается только в пределах таймаута цикла.
func TestRunCycle_SummariesBoundedByCycleTimeout(t *testing.T) {
	t.Parallel()

	sum := &scriptedSummarizer{}
	f := &stubFetcher{results: cycleResults()}
	svc, st := newSQLiteService(t, f, WithSummarizerFactory(func(models.Settings) summarize.Summarizer { return sum }))
	aiConfig(svc)
	svc.cfg.AI.RateInterval = time.Hour
	svc.cfg.Fetcher.CycleTimeout = 100 * time.Millisecond
	ctx := context.Background()

	_, err := st.SeedSources(ctx, cycleSources)
	require.NoError(t, err)

	res, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Inserted)
	require.Equal(t, []string{"Go 1.25 released"}, sum.calls)

	targets, err := st.SummaryTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, "https://b.example/llm", targets[0].URL)
}

func TestRunCycle_ActiveSourcesError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)

	boom := errors.New("db down")
	st.EXPECT().ActiveSources(gomock.Any(), 20).Return(nil, boom)

	svc := New(st, &stubFetcher{}, testConfig())
	_, err := svc.RunCycle(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRunCycle_LimitsSourcesAndSkipsKnown(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)

	src := cycleSources[0]
	f := &stubFetcher{results: []source.Result{{Source: src, Items: []models.RawContent{
		{Title: "known", Link: "https://a.example/known"},
		{Title: "new", Link: "https://a.example/new"},
	}}}}

	cfg := testConfig()
	cfg.Fetcher.MaxSources = 5

	gomock.InOrder(
		st.EXPECT().ActiveSources(gomock.Any(), 5).Return([]models.Source{src}, nil),
		st.EXPECT().TouchSource(gomock.Any(), src.Name, fixedNow).Return(nil),
		st.EXPECT().KnownURLs(gomock.Any(), []string{"https://a.example/known", "https://a.example/new"}).
			Return(map[string]bool{"https://a.example/known": true}, nil),
		st.EXPECT().LoadSettings(gomock.Any()).Return(models.Settings{}, storage.ErrNotFound),
		st.EXPECT().InsertArticles(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, items []models.Article) ([]models.Article, error) {
				require.Len(t, items, 1)
				require.Equal(t, "https://a.example/new", items[0].URL)
				require.NotEmpty(t, items[0].ID)
				require.Equal(t, 1.0, items[0].SourceWeight)
				return items, nil
			}),
		st.EXPECT().HeatCandidates(gomock.Any()).Return(nil, nil),
	)

	svc := New(st, f, cfg, WithClock(func() time.Time { return fixedNow }))
	res, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.CycleResult{Inserted: 1}, res)
}
