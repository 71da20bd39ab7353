package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/service"
)

// Service — операции бизнес-слоя, которые обслуживает HTTP.
type Service interface {
	RunCycle(ctx context.Context) (models.CycleResult, error)
	ListArticles(ctx context.Context, opts models.ListOptions) (*models.Page, error)
	ArticleByID(ctx context.Context, id string) (*models.Article, error)
	Search(ctx context.Context, text string, filter models.SearchFilter) ([]models.Article, error)
	ManualAdd(ctx context.Context, rawURL string) (*models.Article, error)
	SetBookmark(ctx context.Context, id string, value bool) error
	SetRead(ctx context.Context, id string, value bool) error
	RecordClick(ctx context.Context, id string) (*models.Article, error)
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (models.Settings, error)
	RegenerateSummaries(ctx context.Context, progress service.ProgressFunc) (models.SummaryProgress, error)
	SummarizeArticle(ctx context.Context, id string) (*models.Article, error)
	Cleanup(ctx context.Context) (models.CleanupResult, error)
	ListSources(ctx context.Context) ([]models.Source, error)
	SetSourceActive(ctx context.Context, name string, active bool) error
}

// Handlers агрегирует зависимости.
type Handlers struct {
	Service Service
}

func New(svc Service) *Handlers {
	return &Handlers{Service: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return invalidArgument("body: %v", err)
	}
	return nil
}

// invalidArgument — локальная ошибка разбора запроса -> service.ErrInvalidArgument.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), service.ErrInvalidArgument)
}

// queryInt читает необязательный целочисленный параметр.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalidArgument("%s: %v", key, err)
	}
	return n, nil
}

// queryBool читает необязательный булев параметр.
func queryBool(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalidArgument("%s: %v", key, err)
	}
	return b, nil
}

// queryTime читает необязательную дату (RFC3339, RFC1123 или YYYY-MM-DD).
func queryTime(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}

	t, err := normalize.ParseTime(v)
	if err != nil {
		return time.Time{}, invalidArgument("%s: %v", key, err)
	}
	return t, nil
}
