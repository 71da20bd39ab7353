package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/storage"
	"github.com/pribylovaa/news-radar/mocks"
)

func TestListArticles_PageSizeNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       models.ListOptions
		wantPage int
		wantSize int
	}{
		{name: "defaults", in: models.ListOptions{}, wantPage: 1, wantSize: 20},
		{name: "negative", in: models.ListOptions{Page: -3, PageSize: -1}, wantPage: 1, wantSize: 20},
		{name: "capped", in: models.ListOptions{Page: 2, PageSize: 500}, wantPage: 2, wantSize: 100},
		{name: "as is", in: models.ListOptions{Page: 4, PageSize: 7}, wantPage: 4, wantSize: 7},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			st := mocks.NewMockStorage(ctrl)

			st.EXPECT().ListArticles(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, opts models.ListOptions) (*models.Page, error) {
					require.Equal(t, tc.wantPage, opts.Page)
					require.Equal(t, tc.wantSize, opts.PageSize)
					return &models.Page{Page: opts.Page, PageSize: opts.PageSize}, nil
				})

			svc := New(st, &stubFetcher{}, testConfig())
			_, err := svc.ListArticles(context.Background(), tc.in)
			require.NoError(t, err)
		})
	}
}

func TestListArticles_InvalidArgs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, &stubFetcher{}, testConfig())

	_, err := svc.ListArticles(context.Background(), models.ListOptions{Category: "Sports"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.ListArticles(context.Background(), models.ListOptions{SortBy: "random"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArticleByID_Errors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)
	st.EXPECT().ArticleByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	svc := New(st, &stubFetcher{}, testConfig())

	_, err := svc.ArticleByID(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.ArticleByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearch_Validation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, &stubFetcher{}, testConfig())
	ctx := context.Background()

	got, err := svc.Search(ctx, "   ", models.SearchFilter{})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	_, err = svc.Search(ctx, "go", models.SearchFilter{Category: "Sports"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Search(ctx, "go", models.SearchFilter{From: fixedNow, To: fixedNow.Add(-time.Hour)})
	require.ErrorIs(t, err, ErrInvalidArgument)

	st.EXPECT().SearchArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.SearchQuery) ([]models.Article, error) {
			require.Equal(t, MaxSearchResults, q.Limit)
			require.Equal(t, "go", q.Text)
			return nil, nil
		})
	got, err = svc.Search(ctx, " go ", models.SearchFilter{})
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestToggles_AndClick(t *testing.T) {
	t.Parallel()

	svc, st := newSQLiteService(t, &stubFetcher{})
	ctx := context.Background()
	items := seedArticles(t, st, 2)
	id := items[1].ID

	require.NoError(t, svc.SetBookmark(ctx, id, true))
	require.NoError(t, svc.SetRead(ctx, id, true))
	require.ErrorIs(t, svc.SetRead(ctx, "missing", true), ErrNotFound)
	require.ErrorIs(t, svc.SetBookmark(ctx, "missing", true), ErrNotFound)

	before, err := svc.ArticleByID(ctx, id)
	require.NoError(t, err)
	require.True(t, before.IsBookmarked)
	require.True(t, before.IsRead)

	after, err := svc.RecordClick(ctx, id)
	require.NoError(t, err)
	require.Equal(t, before.Engagement.Clicks+1, after.Engagement.Clicks)
	require.Greater(t, after.HeatScore, before.HeatScore)

	_, err = svc.RecordClick(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	page, err := svc.ListArticles(ctx, models.ListOptions{OnlyBookmarked: true})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestSources_SeedAndToggle(t *testing.T) {
	t.Parallel()

	svc, _ := newSQLiteService(t, &stubFetcher{})
	ctx := context.Background()

	n, err := svc.EnsureSeeded(ctx)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	// Повторный посев ничего не добавляет.
	again, err := svc.EnsureSeeded(ctx)
	require.NoError(t, err)
	require.Zero(t, again)

	srcs, err := svc.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, srcs, n)

	name := srcs[0].Name
	require.NoError(t, svc.SetSourceActive(ctx, name, false))
	require.ErrorIs(t, svc.SetSourceActive(ctx, "nope", false), ErrNotFound)
	require.ErrorIs(t, svc.SetSourceActive(ctx, " ", false), ErrInvalidArgument)

	// Выключенный источник не попадает в цикл.
	f := &stubFetcher{}
	svc.fetcher = f
	_, err = svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Len(t, f.requests, 1)
	for _, s := range f.requests[0] {
		require.NotEqual(t, name, s.Name)
	}
	require.Len(t, f.requests[0], n-1)
}
