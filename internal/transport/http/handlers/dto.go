package handlers

import (
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
)

// Article — материал в ответах API.
type Article struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	SummaryKind  string   `json:"summary_kind"`
	Content      string   `json:"content"`
	URL          string   `json:"url"`
	ImageURL     string   `json:"image_url"`
	Source       string   `json:"source"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	PublishedAt  string   `json:"published_at"`
	FetchedAt    string   `json:"fetched_at"`
	HeatScore    float64  `json:"heat_score"`
	ViewCount    int64    `json:"view_count"`
	ClickCount   int64    `json:"click_count"`
	LikeCount    int64    `json:"like_count"`
	CommentCount int64    `json:"comment_count"`
	ShareCount   int64    `json:"share_count"`
	IsRead       bool     `json:"is_read"`
	IsBookmarked bool     `json:"is_bookmarked"`
	IsArchived   bool     `json:"is_archived"`
	IsManual     bool     `json:"is_manual"`
}

// ArticlePage — ответ list-articles.
type ArticlePage struct {
	Items    []Article `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// Source — источник в ответах API.
type Source struct {
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	Kind          string  `json:"source_type"`
	Category      string  `json:"category"`
	Strategy      string  `json:"strategy,omitempty"`
	FetchInterval int64   `json:"fetch_interval_seconds"`
	LastFetchAt   string  `json:"last_fetch_at"`
	IsActive      bool    `json:"is_active"`
	Priority      int     `json:"priority"`
	Weight        float64 `json:"weight"`
}

// Settings — действующие настройки; api-ключ всегда маскирован.
type Settings struct {
	Theme              string  `json:"theme"`
	AIModel            string  `json:"ai_model"`
	AIBaseURL          string  `json:"ai_base_url"`
	AIAPIKey           string  `json:"ai_api_key"`
	AISummaryEnabled   bool    `json:"ai_summary_enabled"`
	CleanupMaxAgeHours float64 `json:"cleanup_max_age_hours"`
	CleanupHeatFloor   float64 `json:"cleanup_heat_floor"`
	CleanupGraceHours  float64 `json:"cleanup_grace_hours"`
	MaxArticles        int     `json:"max_articles"`
}

// SettingsUpdate — частичное обновление: отсутствующие поля не меняются.
type SettingsUpdate struct {
	Theme              *string  `json:"theme"`
	AIModel            *string  `json:"ai_model"`
	AIBaseURL          *string  `json:"ai_base_url"`
	AIAPIKey           *string  `json:"ai_api_key"`
	AISummaryEnabled   *bool    `json:"ai_summary_enabled"`
	CleanupMaxAgeHours *float64 `json:"cleanup_max_age_hours"`
	CleanupHeatFloor   *float64 `json:"cleanup_heat_floor"`
	CleanupGraceHours  *float64 `json:"cleanup_grace_hours"`
	MaxArticles        *int     `json:"max_articles"`
}

// ToggleRequest — тело bookmark/read/active.
type ToggleRequest struct {
	Value *bool `json:"value"`
}

// ManualAddRequest — тело manual-add.
type ManualAddRequest struct {
	URL string `json:"url"`
}

// CycleResponse — итог цикла загрузки.
type CycleResponse struct {
	InsertedCount     int `json:"inserted_count"`
	FailedSourceCount int `json:"failed_source_count"`
}

// CleanupResponse — итог очистки.
type CleanupResponse struct {
	Archived int `json:"archived"`
	Purged   int `json:"purged"`
	Trimmed  int `json:"trimmed"`
}

// Progress — данные SSE-события регенерации summary.
type Progress struct {
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Updated   int    `json:"updated"`
	Fallback  int    `json:"fallback"`
	Title     string `json:"title,omitempty"`
	LastError string `json:"last_error,omitempty"`
	Canceled  bool   `json:"canceled,omitempty"`
}

func articleFromModel(a models.Article) Article {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	return Article{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		SummaryKind:  string(a.SummaryKind),
		Content:      a.Content,
		URL:          a.URL,
		ImageURL:     a.ImageURL,
		Source:       a.Source,
		Category:     string(a.Category),
		Tags:         tags,
		PublishedAt:  normalize.FormatTime(a.PublishedAt),
		FetchedAt:    normalize.FormatTime(a.FetchedAt),
		HeatScore:    a.DisplayHeat(),
		ViewCount:    a.Engagement.Views,
		ClickCount:   a.Engagement.Clicks,
		LikeCount:    a.Engagement.Likes,
		CommentCount: a.Engagement.Comments,
		ShareCount:   a.Engagement.Shares,
		IsRead:       a.IsRead,
		IsBookmarked: a.IsBookmarked,
		IsArchived:   a.IsArchived,
		IsManual:     a.IsManual,
	}
}

func articlesFromModel(items []models.Article) []Article {
	out := make([]Article, 0, len(items))
	for _, a := range items {
		out = append(out, articleFromModel(a))
	}
	return out
}

func sourceFromModel(s models.Source) Source {
	return Source{
		Name:          s.Name,
		URL:           s.URL,
		Kind:          string(s.Kind),
		Category:      string(s.Category),
		Strategy:      s.Strategy,
		FetchInterval: int64(s.FetchInterval / time.Second),
		LastFetchAt:   normalize.FormatTime(s.LastFetchAt),
		IsActive:      s.IsActive,
		Priority:      s.Priority,
		Weight:        s.Weight,
	}
}

func settingsFromModel(s models.Settings) Settings {
	return Settings{
		Theme:              s.Theme,
		AIModel:            s.AIModel,
		AIBaseURL:          s.AIBaseURL,
		AIAPIKey:           s.AIAPIKey,
		AISummaryEnabled:   s.AISummaryEnabled,
		CleanupMaxAgeHours: s.CleanupMaxAge.Hours(),
		CleanupHeatFloor:   s.CleanupHeatFloor,
		CleanupGraceHours:  s.CleanupGrace.Hours(),
		MaxArticles:        s.MaxArticles,
	}
}

func hours(v *float64) *time.Duration {
	if v == nil {
		return nil
	}
	d := time.Duration(*v * float64(time.Hour))
	return &d
}

// ToModel переводит тело запроса в частичное обновление домена.
func (u SettingsUpdate) ToModel() models.SettingsUpdate {
	return models.SettingsUpdate{
		Theme:            u.Theme,
		AIModel:          u.AIModel,
		AIBaseURL:        u.AIBaseURL,
		AIAPIKey:         u.AIAPIKey,
		AISummaryEnabled: u.AISummaryEnabled,
		CleanupMaxAge:    hours(u.CleanupMaxAgeHours),
		CleanupHeatFloor: u.CleanupHeatFloor,
		CleanupGrace:     hours(u.CleanupGraceHours),
		MaxArticles:      u.MaxArticles,
	}
}

func progressFromModel(p models.SummaryProgress) Progress {
	return Progress{
		Current:   p.Current,
		Total:     p.Total,
		Processed: p.Processed,
		Updated:   p.Updated,
		Fallback:  p.Fallback,
		Title:     p.Title,
		LastError: p.LastError,
	}
}
