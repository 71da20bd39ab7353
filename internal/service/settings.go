package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/pkg/log"
	"github.com/pribylovaa/news-radar/internal/pkg/redact"
	"github.com/pribylovaa/news-radar/internal/storage"
)

// Допустимые темы оформления.
var themes = map[string]struct{}{"auto": {}, "light": {}, "dark": {}}

// defaultSettings — настройки до первого сохранения.
func (s *Service) defaultSettings() models.Settings {
	return models.Settings{
		Theme:            "auto",
		AISummaryEnabled: true,
		CleanupMaxAge:    s.cfg.Cleanup.MaxAge,
		CleanupHeatFloor: s.cfg.Cleanup.HeatFloor,
		CleanupGrace:     s.cfg.Cleanup.Grace,
		MaxArticles:      s.cfg.Cleanup.MaxArticles,
	}
}

// stored возвращает копию сохранённых настроек, при первом обращении читая их из хранилища.
func (s *Service) stored(ctx context.Context) (models.Settings, error) {
	s.mu.RLock()
	if s.settings != nil {
		st := *s.settings
		s.mu.RUnlock()
		return st, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings != nil {
		return *s.settings, nil
	}

	st, err := s.storage.LoadSettings(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		st = s.defaultSettings()
	case err != nil:
		return models.Settings{}, err
	}
	s.settings = &st

	return st, nil
}

// effective — сохранённые настройки с подстановкой значений окружения для пустых AI-полей.
func (s *Service) effective(st models.Settings) models.Settings {
	if st.AIModel == "" {
		st.AIModel = s.cfg.AI.Model
	}
	if st.AIBaseURL == "" {
		st.AIBaseURL = s.cfg.AI.BaseURL
	}
	if st.AIAPIKey == "" {
		st.AIAPIKey = s.cfg.AI.APIKey
	}
	return st
}

// current — действующие настройки для внутреннего использования (ключ не маскирован).
func (s *Service) current(ctx context.Context) (models.Settings, error) {
	st, err := s.stored(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	return s.effective(st), nil
}

// GetSettings возвращает действующие настройки; API-ключ маскирован.
func (s *Service) GetSettings(ctx context.Context) (models.Settings, error) {
	const op = "service.settings.GetSettings"

	st, err := s.current(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("%s: %w", op, err)
	}
	st.AIAPIKey = redact.Secret(st.AIAPIKey)

	return st, nil
}

// UpdateSettings применяет частичное обновление, сохраняет его и возвращает
// действующие настройки с маскированным ключом.
//
// Маска вместо ключа (значение из GetSettings) оставляет ключ прежним,
// пустая строка сбрасывает его к значению окружения.
//
// Ошибки:
// - ErrInvalidArgument — неизвестная тема, некорректный base URL, отрицательные пороги.
func (s *Service) UpdateSettings(ctx context.Context, upd models.SettingsUpdate) (models.Settings, error) {
	const op = "service.settings.UpdateSettings"

	if upd.AIAPIKey != nil && redact.IsMasked(*upd.AIAPIKey) {
		upd.AIAPIKey = nil
	}
	if err := validateUpdate(upd); err != nil {
		return models.Settings{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidArgument, err)
	}

	if _, err := s.stored(ctx); err != nil {
		return models.Settings{}, fmt.Errorf("%s: %w", op, err)
	}

	// Запись и обновление копии в памяти — под одной блокировкой.
	s.mu.Lock()
	next := upd.Apply(*s.settings)
	if err := s.storage.SaveSettings(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Settings{}, fmt.Errorf("%s: %w", op, err)
	}
	s.settings = &next
	s.mu.Unlock()

	out := s.effective(next)
	log.From(ctx).Info("settings_updated",
		slog.String("op", op),
		slog.String("theme", out.Theme),
		slog.String("ai_model", out.AIModel),
		slog.String("ai_base_url", out.AIBaseURL),
		slog.String("ai_api_key", redact.Secret(out.AIAPIKey)),
		slog.Bool("ai_summary_enabled", out.AISummaryEnabled),
	)

	out.AIAPIKey = redact.Secret(out.AIAPIKey)
	return out, nil
}

func validateUpdate(u models.SettingsUpdate) error {
	if u.Theme != nil {
		if _, ok := themes[*u.Theme]; !ok {
			return fmt.Errorf("theme must be one of auto, light, dark")
		}
	}
	if u.AIBaseURL != nil && strings.TrimSpace(*u.AIBaseURL) != "" {
		p, err := url.Parse(strings.TrimSpace(*u.AIBaseURL))
		if err != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return fmt.Errorf("ai_base_url must be an absolute http(s) URL")
		}
	}
	if u.CleanupMaxAge != nil && *u.CleanupMaxAge < 0 {
		return fmt.Errorf("cleanup_max_age must be >= 0")
	}
	if u.CleanupGrace != nil && *u.CleanupGrace < 0 {
		return fmt.Errorf("cleanup_grace must be >= 0")
	}
	if u.MaxArticles != nil && *u.MaxArticles < 0 {
		return fmt.Errorf("max_articles must be >= 0")
	}
	return nil
}
