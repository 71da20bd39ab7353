// heat считает рейтинг «горячести» материала.
//
// Оценка детерминирована и пересчитывается целиком при изменении счётчиков
// вовлечённости или времени, а не накапливается:
//
//	heat = views*1 + likes*3 + comments*5 + shares*4
//	     + source_weight*15
//	     - hours_since_published*0.5
//
// Views включает клики по материалу.
package heat

import (
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
)

const (
	viewFactor    = 1.0
	likeFactor    = 3.0
	commentFactor = 5.0
	shareFactor   = 4.0
	weightFactor  = 15.0
	decayPerHour  = 0.5
)

// Веса авторитетности по классам источников.
const (
	WeightOfficial     = 1.0
	WeightResearch     = 0.9
	WeightCommunity    = 0.8
	WeightMedia        = 0.6
	WeightUnclassified = 0.4
)

// WeightFor возвращает вес класса авторитетности; неизвестный класс — unclassified.
func WeightFor(t models.Tier) float64 {
	switch t {
	case models.TierOfficial:
		return WeightOfficial
	case models.TierResearch:
		return WeightResearch
	case models.TierCommunity:
		return WeightCommunity
	case models.TierMedia:
		return WeightMedia
	default:
		return WeightUnclassified
	}
}

// Score вычисляет «сырой» рейтинг. Результат может быть отрицательным.
// Публикация «из будущего» не даёт бонуса: возраст ограничен снизу нулём.
func Score(e models.Engagement, sourceWeight float64, publishedAt, now time.Time) float64 {
	hours := now.Sub(publishedAt).Hours()
	if hours < 0 {
		hours = 0
	}

	engagement := float64(e.Views+e.Clicks)*viewFactor +
		float64(e.Likes)*likeFactor +
		float64(e.Comments)*commentFactor +
		float64(e.Shares)*shareFactor

	return engagement + sourceWeight*weightFactor - hours*decayPerHour
}

// Of — Score для уже собранного материала.
func Of(a models.Article, now time.Time) float64 {
	return Score(a.Engagement, a.SourceWeight, a.PublishedAt, now)
}
