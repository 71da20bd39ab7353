// models содержит доменные сущности news-radar.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import "time"

// Category — закрытый набор рубрик.
type Category string

const (
	CategoryTech     Category = "Tech"
	CategoryResearch Category = "Research"
	CategoryProduct  Category = "Product"
	CategoryIndustry Category = "Industry"
	CategoryFun      Category = "Fun"
)

// Categories перечисляет допустимые рубрики в порядке отображения.
var Categories = []Category{CategoryTech, CategoryResearch, CategoryProduct, CategoryIndustry, CategoryFun}

// Valid сообщает, входит ли рубрика в закрытый набор.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// SummaryKind — происхождение краткого содержания.
type SummaryKind string

const (
	SummaryTemplate SummaryKind = "template"
	SummaryAI       SummaryKind = "ai"
)

// Engagement — сигналы вовлечённости. Большинство источников их не отдаёт,
// поэтому нулевое значение — нормальный случай.
type Engagement struct {
	Views    int64
	Clicks   int64
	Likes    int64
	Comments int64
	Shares   int64
}

// Article — доменная сущность материала.
//
// Особенности:
//   - ID — UUIDv4, назначается при вставке;
//   - URL — канонический, уникален по всему корпусу (включая архив);
//   - временные метки — в UTC.
type Article struct {
	ID          string
	Title       string
	Summary     string
	SummaryKind SummaryKind
	// Content — текст без разметки, обрезанный по бюджету хранения.
	Content  string
	URL      string
	ImageURL string
	// Fingerprint — хеш канонического URL и заголовка.
	Fingerprint string

	Source       string
	SourceWeight float64
	Category     Category
	Tags         []string

	PublishedAt time.Time
	FetchedAt   time.Time

	// HeatScore хранится «сырым» (может быть отрицательным).
	HeatScore  float64
	Engagement Engagement

	IsRead       bool
	IsBookmarked bool
	IsArchived   bool
	IsManual     bool
}

// DisplayHeat — значение для показа: отрицательные значения обрезаются до нуля.
func (a Article) DisplayHeat() float64 {
	if a.HeatScore < 0 {
		return 0
	}
	return a.HeatScore
}

// RawContent — кандидат, полученный адаптером источника, до нормализации.
// Не зависит от хранилища.
type RawContent struct {
	Title string
	Link  string
	Body  string
	Image string
	// Published — строка даты в формате источника, может быть пустой.
	Published  string
	Engagement Engagement
	Tags       []string
}

// ListOptions — параметры постраничной выборки.
//
// Особенности:
//   - Page начинается с 1, Page <= 0 трактуется как 1;
//   - при PageSize == 0 применяется серверный default (config.LimitsConfig.Default).
type ListOptions struct {
	Page     int
	PageSize int
	Category Category
	// SortBy — SortHeat (по умолчанию) или SortLatest.
	SortBy SortOrder
	// OnlyBookmarked — только закладки.
	OnlyBookmarked bool
	// IncludeArchived — показывать архивные материалы.
	IncludeArchived bool
}

// SortOrder — порядок выдачи списка.
type SortOrder string

const (
	SortHeat   SortOrder = "heat"
	SortLatest SortOrder = "latest"
)

// Page — страница результатов с общим числом записей.
type Page struct {
	Items    []Article
	Total    int
	Page     int
	PageSize int
}

// SearchFilter сужает множество кандидатов до ранжирования.
type SearchFilter struct {
	Category Category
	Source   string
	From     time.Time
	To       time.Time
}

// SearchQuery — запрос к полнотекстовому индексу.
type SearchQuery struct {
	Text   string
	Filter SearchFilter
	Limit  int
}
