package models

import "time"

// SourceKind — закрытый набор видов источников.
type SourceKind string

const (
	KindFeed     SourceKind = "feed"
	KindAPI      SourceKind = "api"
	KindWeb      SourceKind = "web"
	KindHeadless SourceKind = "headless"
)

// Valid сообщает, известен ли вид источника.
func (k SourceKind) Valid() bool {
	switch k {
	case KindFeed, KindAPI, KindWeb, KindHeadless:
		return true
	}
	return false
}

// Tier — класс авторитетности источника, определяет вес в heat score.
type Tier string

const (
	TierOfficial     Tier = "official"
	TierResearch     Tier = "research"
	TierCommunity    Tier = "community"
	TierMedia        Tier = "media"
	TierUnclassified Tier = "unclassified"
)

// Source — настроенный источник.
type Source struct {
	Name     string
	URL      string
	Kind     SourceKind
	Category Category
	// Strategy — имя стратегии извлечения ссылок для Web/Headless ("anchors", "github-trending").
	Strategy string
	// Selector — CSS-селектор для стратегии anchors; пустой — все a[href].
	Selector      string
	FetchInterval time.Duration
	LastFetchAt   time.Time
	IsActive      bool
	Priority      int
	Weight        float64
}
