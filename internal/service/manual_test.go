package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/source"
	"github.com/pribylovaa/news-radar/internal/storage"
	"github.com/pribylovaa/news-radar/mocks"
)

func TestManualAdd_Success(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{page: &models.RawContent{
		Title: "OpenAI raises new funding round",
		Body:  "The startup closed a large round.",
	}}
	svc, _ := newSQLiteService(t, f)
	ctx := context.Background()

	a, err := svc.ManualAdd(ctx, " https://news.example/post?utm_campaign=x ")
	require.NoError(t, err)
	require.Equal(t, "https://news.example/post", a.URL)
	require.Equal(t, ManualSource, a.Source)
	require.True(t, a.IsManual)
	require.Equal(t, models.CategoryIndustry, a.Category)
	require.Equal(t, fixedNow, a.PublishedAt)

	got, err := svc.ArticleByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.IsManual)

	// Повтор отклоняется до загрузки страницы.
	_, err = svc.ManualAdd(ctx, "https://NEWS.example/post/")
	require.ErrorIs(t, err, ErrAlreadyExists)
	require.Len(t, f.pageURLs, 1)
}

func TestManualAdd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		pageErr error
		page    *models.RawContent
		wantErr error
	}{
		{name: "not a url", url: "notaurl", wantErr: ErrInvalidArgument},
		{name: "ftp scheme", url: "ftp://x.example/file", wantErr: ErrInvalidArgument},
		{name: "no host", url: "https://", wantErr: ErrInvalidArgument},
		{name: "network failure", url: "https://x.example/a", pageErr: errors.New("dial tcp: refused"), wantErr: ErrUnreachable},
		{name: "bad status", url: "https://x.example/a", pageErr: source.ErrStatus, wantErr: ErrUnreachable},
		{name: "no content", url: "https://x.example/a", pageErr: source.ErrNoContent, wantErr: ErrUnparsable},
		{name: "empty title", url: "https://x.example/a", page: &models.RawContent{Title: "<b> </b>"}, wantErr: ErrUnparsable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := &stubFetcher{page: tc.page, pageErr: tc.pageErr}
			svc, _ := newSQLiteService(t, f)

			_, err := svc.ManualAdd(context.Background(), tc.url)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestManualAdd_InsertConflict(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	st := mocks.NewMockStorage(ctrl)

	st.EXPECT().KnownURLs(gomock.Any(), []string{"https://x.example/a"}).Return(map[string]bool{}, nil)
	st.EXPECT().InsertArticle(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	svc := New(st, &stubFetcher{page: &models.RawContent{Title: "Race"}}, testConfig())
	_, err := svc.ManualAdd(context.Background(), "https://x.example/a")
	require.ErrorIs(t, err, ErrAlreadyExists)
}
