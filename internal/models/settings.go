package models

import "time"

// Settings — процессные настройки, единственная строка в хранилище.
type Settings struct {
	Theme            string
	AIModel          string
	AIBaseURL        string
	AIAPIKey         string
	AISummaryEnabled bool

	// Пороги очистки.
	CleanupMaxAge    time.Duration
	CleanupHeatFloor float64
	CleanupGrace     time.Duration
	MaxArticles      int
}

// AIConfigured сообщает, хватает ли настроек для вызова модели.
func (s Settings) AIConfigured() bool {
	return s.AISummaryEnabled && s.AIBaseURL != "" && s.AIAPIKey != "" && s.AIModel != ""
}

// SettingsUpdate — частичное обновление: nil-поля не меняются.
type SettingsUpdate struct {
	Theme            *string
	AIModel          *string
	AIBaseURL        *string
	AIAPIKey         *string
	AISummaryEnabled *bool
	CleanupMaxAge    *time.Duration
	CleanupHeatFloor *float64
	CleanupGrace     *time.Duration
	MaxArticles      *int
}

// Apply применяет непустые поля обновления к копии настроек.
func (u SettingsUpdate) Apply(s Settings) Settings {
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	if u.AIModel != nil {
		s.AIModel = *u.AIModel
	}
	if u.AIBaseURL != nil {
		s.AIBaseURL = *u.AIBaseURL
	}
	if u.AIAPIKey != nil {
		s.AIAPIKey = *u.AIAPIKey
	}
	if u.AISummaryEnabled != nil {
		s.AISummaryEnabled = *u.AISummaryEnabled
	}
	if u.CleanupMaxAge != nil {
		s.CleanupMaxAge = *u.CleanupMaxAge
	}
	if u.CleanupHeatFloor != nil {
		s.CleanupHeatFloor = *u.CleanupHeatFloor
	}
	if u.CleanupGrace != nil {
		s.CleanupGrace = *u.CleanupGrace
	}
	if u.MaxArticles != nil {
		s.MaxArticles = *u.MaxArticles
	}
	return s
}
