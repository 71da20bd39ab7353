package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/service"
	"github.com/pribylovaa/news-radar/internal/transport/http/handlers"
)

// fakeService — handlers.Service с подменяемыми методами; невызванные
// методы встроенного интерфейса паникуют (Recover превращает это в 500).
type fakeService struct {
	handlers.Service

	listArticles func(models.ListOptions) (*models.Page, error)
	articleByID  func(string) (*models.Article, error)
	search       func(string, models.SearchFilter) ([]models.Article, error)
	manualAdd    func(string) (*models.Article, error)
	setBookmark  func(string, bool) error
	getSettings  func() (models.Settings, error)
	update       func(models.SettingsUpdate) (models.Settings, error)
	regenerate   func(context.Context, service.ProgressFunc) (models.SummaryProgress, error)
	runCycle     func(context.Context) (models.CycleResult, error)
	setActive    func(string, bool) error
	summarizeOne func(context.Context, string) (*models.Article, error)
}

func (f *fakeService) ListArticles(_ context.Context, o models.ListOptions) (*models.Page, error) {
	return f.listArticles(o)
}

func (f *fakeService) ArticleByID(_ context.Context, id string) (*models.Article, error) {
	return f.articleByID(id)
}

func (f *fakeService) Search(_ context.Context, q string, fl models.SearchFilter) ([]models.Article, error) {
	return f.search(q, fl)
}

func (f *fakeService) ManualAdd(_ context.Context, u string) (*models.Article, error) {
	return f.manualAdd(u)
}

func (f *fakeService) SetBookmark(_ context.Context, id string, v bool) error {
	return f.setBookmark(id, v)
}

func (f *fakeService) GetSettings(context.Context) (models.Settings, error) { return f.getSettings() }

func (f *fakeService) UpdateSettings(_ context.Context, u models.SettingsUpdate) (models.Settings, error) {
	return f.update(u)
}

func (f *fakeService) RegenerateSummaries(ctx context.Context, p service.ProgressFunc) (models.SummaryProgress, error) {
	return f.regenerate(ctx, p)
}

func (f *fakeService) RunCycle(ctx context.Context) (models.CycleResult, error) {
	return f.runCycle(ctx)
}

func (f *fakeService) SetSourceActive(_ context.Context, name string, v bool) error {
	return f.setActive(name, v)
}

func (f *fakeService) SummarizeArticle(ctx context.Context, id string) (*models.Article, error) {
	return f.summarizeOne(ctx, id)
}

func newRouter(svc handlers.Service) http.Handler {
	return NewRouter(svc, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: "/api",
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, rd))
	return rr, rr.Body.Bytes()
}

type envelope struct {
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

var sample = models.Article{
	ID:          "a1",
	Title:       "Hello",
	SummaryKind: models.SummaryTemplate,
	URL:         "https://x.example/a",
	Category:    models.CategoryTech,
	PublishedAt: time.Date(2025, 9, 16, 10, 0, 0, 0, time.UTC),
	HeatScore:   -3,
	Engagement:  models.Engagement{Clicks: 2},
}

func TestListArticles_QueryParsing(t *testing.T) {
	t.Parallel()

	var got models.ListOptions
	h := newRouter(&fakeService{listArticles: func(o models.ListOptions) (*models.Page, error) {
		got = o
		return &models.Page{Items: []models.Article{sample}, Total: 1, Page: 2, PageSize: 5}, nil
	}})

	resp, body := do(t, h, http.MethodGet, "/api/articles?page=2&page_size=5&category=Tech&sort=latest&bookmarked=true", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, models.ListOptions{
		Page: 2, PageSize: 5, Category: models.CategoryTech, SortBy: models.SortLatest, OnlyBookmarked: true,
	}, got)

	var page handlers.ArticlePage
	require.NoError(t, json.Unmarshal(body, &page))
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	require.Equal(t, "2025-09-16T10:00:00Z", page.Items[0].PublishedAt)
	require.Zero(t, page.Items[0].HeatScore)
	require.EqualValues(t, 2, page.Items[0].ClickCount)
	require.NotNil(t, page.Items[0].Tags)

	resp, body = do(t, h, http.MethodGet, "/api/articles?page=abc", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.Equal(t, "invalid_argument", env.Error.Code)
	require.NotEmpty(t, env.Error.RequestID)
}

func TestGetArticle_NotFound(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeService{articleByID: func(id string) (*models.Article, error) {
		require.Equal(t, "missing", id)
		return nil, fmt.Errorf("op: %w", service.ErrNotFound)
	}})

	resp, _ := do(t, h, http.MethodGet, "/api/articles/missing", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearch_Filters(t *testing.T) {
	t.Parallel()

	var gotQ string
	var gotF models.SearchFilter
	h := newRouter(&fakeService{search: func(q string, f models.SearchFilter) ([]models.Article, error) {
		gotQ, gotF = q, f
		return []models.Article{}, nil
	}})

	resp, body := do(t, h, http.MethodGet, "/api/search?q=%E5%A4%A7%E6%A8%A1%E5%9E%8B&source=HN&from=2025-09-01&to=2025-09-16T00:00:00Z", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, "[]", string(body))
	require.Equal(t, "大模型", gotQ)
	require.Equal(t, "HN", gotF.Source)
	require.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), gotF.From)
	require.Equal(t, time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), gotF.To)

	resp, _ = do(t, h, http.MethodGet, "/api/search?q=x&from=yesterday-ish", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestManualAdd_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "created", body: `{"url":"https://x.example/a"}`, status: http.StatusCreated},
		{name: "unknown field", body: `{"link":"x"}`, status: http.StatusBadRequest},
		{name: "invalid", body: `{"url":"x"}`, err: service.ErrInvalidArgument, status: http.StatusBadRequest},
		{name: "duplicate", body: `{"url":"https://x.example/a"}`, err: service.ErrAlreadyExists, status: http.StatusConflict},
		{name: "unparsable", body: `{"url":"https://x.example/a"}`, err: service.ErrUnparsable, status: http.StatusUnprocessableEntity},
		{name: "unreachable", body: `{"url":"https://x.example/a"}`, err: service.ErrUnreachable, status: http.StatusBadGateway},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newRouter(&fakeService{manualAdd: func(string) (*models.Article, error) {
				if tc.err != nil {
					return nil, tc.err
				}
				a := sample
				a.IsManual = true
				return &a, nil
			}})

			resp, body := do(t, h, http.MethodPost, "/api/articles", tc.body)
			require.Equal(t, tc.status, resp.Code, string(body))
		})
	}
}

func TestToggle_RequiresValue(t *testing.T) {
	t.Parallel()

	var gotID string
	var gotValue bool
	h := newRouter(&fakeService{setBookmark: func(id string, v bool) error {
		gotID, gotValue = id, v
		return nil
	}})

	resp, _ := do(t, h, http.MethodPut, "/api/articles/a1/bookmark", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp, _ = do(t, h, http.MethodPut, "/api/articles/a1/bookmark", `{"value":true}`)
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "a1", gotID)
	require.True(t, gotValue)
}

func TestSourceActive_PathName(t *testing.T) {
	t.Parallel()

	var gotName string
	h := newRouter(&fakeService{setActive: func(name string, v bool) error {
		gotName = name
		if name == "nope" {
			return service.ErrNotFound
		}
		return nil
	}})

	resp, _ := do(t, h, http.MethodPut, "/api/sources/Hacker%20News%20AI/active", `{"value":false}`)
	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "Hacker News AI", gotName)

	resp, _ = do(t, h, http.MethodPut, "/api/sources/nope/active", `{"value":false}`)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSettings_RoundTrip(t *testing.T) {
	t.Parallel()

	var gotUpd models.SettingsUpdate
	h := newRouter(&fakeService{
		getSettings: func() (models.Settings, error) {
			return models.Settings{Theme: "auto", AIAPIKey: "***cdef", AISummaryEnabled: true, CleanupMaxAge: 720 * time.Hour}, nil
		},
		update: func(u models.SettingsUpdate) (models.Settings, error) {
			gotUpd = u
			if u.Theme != nil && *u.Theme == "sepia" {
				return models.Settings{}, service.ErrInvalidArgument
			}
			return models.Settings{Theme: *u.Theme, CleanupGrace: *u.CleanupGrace}, nil
		},
	})

	resp, body := do(t, h, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var st handlers.Settings
	require.NoError(t, json.Unmarshal(body, &st))
	require.Equal(t, "***cdef", st.AIAPIKey)
	require.Equal(t, 720.0, st.CleanupMaxAgeHours)

	resp, body = do(t, h, http.MethodPut, "/api/settings", `{"theme":"dark","cleanup_grace_hours":1.5}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(body, &st))
	require.Equal(t, "dark", st.Theme)
	require.Equal(t, 1.5, st.CleanupGraceHours)
	require.Nil(t, gotUpd.AIAPIKey)
	require.Equal(t, 90*time.Minute, *gotUpd.CleanupGrace)

	resp, _ = do(t, h, http.MethodPut, "/api/settings", `{"theme":"sepia"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRunCycle_Conflict(t *testing.T) {
	t.Parallel()

	calls := 0
	h := newRouter(&fakeService{runCycle: func(ctx context.Context) (models.CycleResult, error) {
		calls++
		if calls > 1 {
			return models.CycleResult{}, service.ErrCycleRunning
		}
		// Цикл не ограничен общим таймаутом запросов.
		_, has := ctx.Deadline()
		require.False(t, has)
		return models.CycleResult{Inserted: 4, FailedSources: 1}, nil
	}})

	resp, body := do(t, h, http.MethodPost, "/api/cycles", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"inserted_count":4,"failed_source_count":1}`, string(body))

	resp, _ = do(t, h, http.MethodPost, "/api/cycles", "")
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestSummarizeArticle_Route(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeService{summarizeOne: func(ctx context.Context, id string) (*models.Article, error) {
		// Вызов модели не ограничен общим таймаутом запросов.
		_, has := ctx.Deadline()
		require.False(t, has)

		switch id {
		case "a1":
			a := sample
			a.Summary = "AI summary"
			a.SummaryKind = models.SummaryAI
			return &a, nil
		case "nope":
			return nil, service.ErrNotFound
		case "noai":
			return nil, service.ErrAINotConfigured
		default:
			return nil, service.ErrUnreachable
		}
	}})

	resp, body := do(t, h, http.MethodPost, "/api/articles/a1/summary", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var got struct {
		ID          string `json:"id"`
		Summary     string `json:"summary"`
		SummaryKind string `json:"summary_kind"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.Equal(t, "a1", got.ID)
	require.Equal(t, "AI summary", got.Summary)
	require.Equal(t, "ai", got.SummaryKind)

	for target, status := range map[string]int{
		"/api/articles/nope/summary": http.StatusNotFound,
		"/api/articles/noai/summary": http.StatusPreconditionFailed,
		"/api/articles/down/summary": http.StatusBadGateway,
	} {
		resp, _ := do(t, h, http.MethodPost, target, "")
		require.Equal(t, status, resp.Code, target)
	}
}

func TestRegenerateSummaries_SSE(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeService{regenerate: func(_ context.Context, p service.ProgressFunc) (models.SummaryProgress, error) {
		st := models.SummaryProgress{Total: 2}
		st.Kind = models.ProgressStart
		p(st)
		for i := 1; i <= 2; i++ {
			st.Kind, st.Current, st.Processed, st.Updated, st.Title = models.ProgressItem, i, i, i, fmt.Sprintf("t%d", i)
			p(st)
		}
		st.Kind, st.Title = models.ProgressComplete, ""
		p(st)
		return st, nil
	}})

	resp, _ := do(t, h, http.MethodPost, "/api/summaries/regenerate", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	require.True(t, resp.Flushed)

	var events []string
	var last handlers.Progress
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			require.NoError(t, json.Unmarshal([]byte(data), &last))
		}
	}
	require.NoError(t, sc.Err())

	require.Equal(t, []string{
		"summaries-update:start",
		"summaries-update:progress",
		"summaries-update:progress",
		"summaries-update:complete",
	}, events)
	require.Equal(t, 2, last.Processed)
	require.Equal(t, 2, last.Updated)
	require.False(t, last.Canceled)
}

func TestRegenerateSummaries_PreconditionAsJSON(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeService{regenerate: func(context.Context, service.ProgressFunc) (models.SummaryProgress, error) {
		return models.SummaryProgress{}, service.ErrAINotConfigured
	}})

	resp, body := do(t, h, http.MethodPost, "/api/summaries/regenerate", "")
	require.Equal(t, http.StatusPreconditionFailed, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.Equal(t, "ai_not_configured", env.Error.Code)
}

func TestUnimplementedServiceMethod_Returns500(t *testing.T) {
	t.Parallel()

	h := newRouter(&fakeService{})
	resp, _ := do(t, h, http.MethodPost, "/api/cleanup", "")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
