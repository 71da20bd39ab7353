package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
)

// LoadSettings читает единственную строку настроек.
func (s *Storage) LoadSettings(ctx context.Context) (models.Settings, error) {
	const op = "storage.sqlite.LoadSettings"

	var (
		st            models.Settings
		enabled       int
		maxAge, grace int64
	)

	err := s.db.QueryRowContext(ctx, `
	SELECT theme, ai_model, ai_base_url, ai_api_key, ai_summary_enabled,
	       cleanup_max_age, cleanup_heat_floor, cleanup_grace, max_articles
	FROM settings
	WHERE id = 1
	`).Scan(
		&st.Theme, &st.AIModel, &st.AIBaseURL, &st.AIAPIKey, &enabled,
		&maxAge, &st.CleanupHeatFloor, &grace, &st.MaxArticles,
	)
	if err != nil {
		return models.Settings{}, wrapNoRows(op, err)
	}

	st.AISummaryEnabled = enabled == 1
	st.CleanupMaxAge = time.Duration(maxAge) * time.Second
	st.CleanupGrace = time.Duration(grace) * time.Second

	return st, nil
}

// SaveSettings сохраняет настройки (upsert строки id=1).
func (s *Storage) SaveSettings(ctx context.Context, st models.Settings) error {
	const op = "storage.sqlite.SaveSettings"

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO settings (id, theme, ai_model, ai_base_url, ai_api_key, ai_summary_enabled,
	                      cleanup_max_age, cleanup_heat_floor, cleanup_grace, max_articles)
	VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		theme = excluded.theme,
		ai_model = excluded.ai_model,
		ai_base_url = excluded.ai_base_url,
		ai_api_key = excluded.ai_api_key,
		ai_summary_enabled = excluded.ai_summary_enabled,
		cleanup_max_age = excluded.cleanup_max_age,
		cleanup_heat_floor = excluded.cleanup_heat_floor,
		cleanup_grace = excluded.cleanup_grace,
		max_articles = excluded.max_articles
	`,
		st.Theme, st.AIModel, st.AIBaseURL, st.AIAPIKey, boolInt(st.AISummaryEnabled),
		int64(st.CleanupMaxAge/time.Second), st.CleanupHeatFloor, int64(st.CleanupGrace/time.Second), st.MaxArticles,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
