package search

import (
	"math"
	"sort"
	"time"
)

// Стандартные параметры BM25.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

// fieldBoost — вклад поля во взвешенную частоту термина.
var fieldBoost = map[Field]float64{
	FieldTitle:   3,
	FieldSummary: 2,
	FieldContent: 1,
}

// TermHits — совпадения одного токена запроса (по префиксу) в корпусе.
type TermHits struct {
	Token string
	// DF — число документов корпуса, содержащих термин с этим префиксом.
	DF int
	// Docs — частоты по полям для документов-кандидатов (уже после фильтров).
	Docs map[string]map[Field]int
}

// Doc — метаданные кандидата, нужные для ранжирования.
type Doc struct {
	ID          string
	Length      int
	PublishedAt time.Time
}

// Stats — статистика корпуса.
type Stats struct {
	Docs      int
	AvgLength float64
}

// Hit — результат ранжирования.
type Hit struct {
	ID    string
	Score float64
}

// BM25 ранжирует кандидатов с полевыми весами (упрощённый BM25F).
type BM25 struct {
	K1 float64
	B  float64
}

// Rank оставляет документы, совпавшие со всеми токенами запроса, считает релевантность
// и сортирует по убыванию; при равенстве выше более свежий материал.
// limit <= 0 отключает ограничение.
func (m BM25) Rank(hits []TermHits, docs map[string]Doc, stats Stats, limit int) []Hit {
	if len(hits) == 0 || len(docs) == 0 {
		return nil
	}

	k1, b := m.K1, m.B
	if k1 <= 0 {
		k1 = DefaultK1
	}
	if b < 0 || b > 1 {
		b = DefaultB
	}

	avg := stats.AvgLength
	if avg <= 0 {
		avg = 1
	}
	n := float64(stats.Docs)

	scores := make(map[string]float64)
	for id := range hits[0].Docs {
		if _, ok := docs[id]; ok {
			scores[id] = 0
		}
	}

	for _, th := range hits {
		df := float64(th.DF)
		if df < float64(len(th.Docs)) {
			df = float64(len(th.Docs))
		}
		if n < df {
			n = df
		}
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		if idf < 0 {
			idf = 0
		}

		for id := range scores {
			fields, ok := th.Docs[id]
			if !ok {
				delete(scores, id)
				continue
			}

			var tf float64
			for f, c := range fields {
				tf += fieldBoost[f] * float64(c)
			}

			dl := float64(docs[id].Length)
			norm := tf * (k1 + 1) / (tf + k1*(1-b+b*dl/avg))
			scores[id] += idf * norm
		}
	}

	out := make([]Hit, 0, len(scores))
	for id, s := range scores {
		out = append(out, Hit{ID: id, Score: s})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		pi, pj := docs[out[i].ID].PublishedAt, docs[out[j].ID].PublishedAt
		if !pi.Equal(pj) {
			return pi.After(pj)
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
