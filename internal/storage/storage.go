// storage определяет контракты доступа к хранилищу news-radar.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
)

//go:generate mockgen -destination=../../mocks/storage.go -package=mocks github.com/pribylovaa/news-radar/internal/storage Storage

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности (канонический URL, имя источника).
	ErrAlreadyExists = errors.New("already exists")
)

// ArticleStorage описывает операции над models.Article.
// Индекс полнотекстового поиска обновляется в той же транзакции, что и запись материала.
type ArticleStorage interface {
	// KnownURLs возвращает подмножество urls, уже присутствующих в корпусе (включая архив).
	KnownURLs(ctx context.Context, urls []string) (map[string]bool, error)
	// InsertArticles вставляет пачку; известные URL молча пропускаются.
	// Ошибка одной записи не прерывает пачку. Возвращает реально вставленные материалы.
	InsertArticles(ctx context.Context, items []models.Article) ([]models.Article, error)
	// InsertArticle вставляет один материал; ErrAlreadyExists при повторном URL.
	InsertArticle(ctx context.Context, item models.Article) (*models.Article, error)
	// ArticleByID — материал по идентификатору или ErrNotFound.
	ArticleByID(ctx context.Context, id string) (*models.Article, error)
	// ListArticles — страница материалов с общим числом.
	ListArticles(ctx context.Context, opts models.ListOptions) (*models.Page, error)
	// SearchArticles — BM25-ранжированная выдача по префиксному многотокенному запросу.
	SearchArticles(ctx context.Context, q models.SearchQuery) ([]models.Article, error)
	// SetBookmark/SetRead — флаги пользователя; ErrNotFound для неизвестного id.
	SetBookmark(ctx context.Context, id string, value bool) error
	SetRead(ctx context.Context, id string, value bool) error
	// IncrementClicks увеличивает click_count и возвращает обновлённый материал.
	IncrementClicks(ctx context.Context, id string) (*models.Article, error)
	// HeatCandidates — неархивные материалы с полями, нужными для пересчёта heat.
	HeatCandidates(ctx context.Context) ([]models.Article, error)
	// UpdateHeat записывает пересчитанные оценки.
	UpdateHeat(ctx context.Context, scores map[string]float64) error
	// SummaryTargets — неархивные материалы с шаблонным или пустым summary.
	SummaryTargets(ctx context.Context) ([]models.Article, error)
	// UpdateSummary меняет summary и переиндексирует материал.
	UpdateSummary(ctx context.Context, id, summary string, kind models.SummaryKind) error
}

// CleanupStorage — пакетные предикатные операции жизненного цикла.
// Закладки никогда не архивируются и не удаляются.
type CleanupStorage interface {
	// Archive помечает архивными материалы, опубликованные раньше before.
	Archive(ctx context.Context, before time.Time) (int, error)
	// PurgeCold удаляет материалы с heat ниже floor, загруженные раньше fetchedBefore.
	PurgeCold(ctx context.Context, floor float64, fetchedBefore time.Time) (int, error)
	// TrimToCap удаляет самые старые материалы сверх max (сначала архивные).
	TrimToCap(ctx context.Context, max int) (int, error)
}

// SourceStorage описывает операции над models.Source.
type SourceStorage interface {
	// SeedSources добавляет отсутствующие источники, существующие не меняет.
	SeedSources(ctx context.Context, sources []models.Source) (int, error)
	ListSources(ctx context.Context) ([]models.Source, error)
	// ActiveSources — активные источники по приоритету, давно не опрашиваемые первыми.
	ActiveSources(ctx context.Context, limit int) ([]models.Source, error)
	SetSourceActive(ctx context.Context, name string, active bool) error
	TouchSource(ctx context.Context, name string, at time.Time) error
}

// SettingsStorage — единственная строка настроек.
type SettingsStorage interface {
	// LoadSettings возвращает ErrNotFound, если настройки ещё не сохранялись.
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
}

// Storage задаёт полный контракт хранилища.
type Storage interface {
	ArticleStorage
	CleanupStorage
	SourceStorage
	SettingsStorage
	Close() error
}
