package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
)

// apiEntry — поля, которые понимает API-адаптер. Неизвестные поля игнорируются,
// для заголовка, ссылки и даты принимаются распространённые синонимы.
type apiEntry struct {
	Title string `json:"title"`
	Name  string `json:"name"`

	URL     string `json:"url"`
	Link    string `json:"link"`
	HTMLURL string `json:"html_url"`

	Summary     string `json:"summary"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageURL    string `json:"image_url"`

	PublishedAt json.RawMessage `json:"published_at"`
	Published   json.RawMessage `json:"published"`
	Date        json.RawMessage `json:"date"`
	CreatedAt   json.RawMessage `json:"created_at"`

	Views       *int64 `json:"views"`
	Score       *int64 `json:"score"`
	Points      *int64 `json:"points"`
	Likes       *int64 `json:"likes"`
	Comments    *int64 `json:"comments"`
	NumComments *int64 `json:"num_comments"`
	Shares      *int64 `json:"shares"`

	Tags json.RawMessage `json:"tags"`
}

// envelopeKeys — обёртки, в которых некоторые API отдают список.
var envelopeKeys = []string{"items", "data", "hits", "results"}

// ParseAPI разбирает JSON-список объектов (или объект-обёртку со списком) и возвращает до limit записей.
// Объекты, которые не декодируются или не содержат заголовка и ссылки, пропускаются.
func ParseAPI(raw []byte, limit int) ([]models.RawContent, int, error) {
	const op = "source.ParseAPI"

	list, err := topLevelList(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}

	var (
		output  []models.RawContent
		skipped int
	)
	for _, elem := range list {
		if limit > 0 && len(output) == limit {
			break
		}

		var e apiEntry
		if err := json.Unmarshal(elem, &e); err != nil {
			skipped++
			continue
		}

		title := strings.TrimSpace(firstNonEmpty(e.Title, e.Name))
		link := strings.TrimSpace(firstNonEmpty(e.URL, e.Link, e.HTMLURL))
		if title == "" || link == "" {
			skipped++
			continue
		}

		output = append(output, models.RawContent{
			Title:     title,
			Link:      link,
			Body:      strings.TrimSpace(firstNonEmpty(e.Summary, e.Description)),
			Image:     strings.TrimSpace(firstNonEmpty(e.Image, e.ImageURL)),
			Published: rawTime(e.PublishedAt, e.Published, e.Date, e.CreatedAt),
			Engagement: models.Engagement{
				Views:    deref(e.Views),
				Likes:    deref(e.Likes) + deref(e.Score) + deref(e.Points),
				Comments: deref(e.Comments) + deref(e.NumComments),
				Shares:   deref(e.Shares),
			},
			Tags: stringList(e.Tags),
		})
	}

	return output, skipped, nil
}

func topLevelList(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for _, k := range envelopeKeys {
		if v, ok := obj[k]; ok {
			var list []json.RawMessage
			if err := json.Unmarshal(v, &list); err == nil {
				return list, nil
			}
		}
	}

	return nil, fmt.Errorf("no top-level list")
}

// rawTime берёт первое непустое поле даты: строка остаётся как есть,
// число трактуется как unix-время (секунды или миллисекунды).
func rawTime(fields ...json.RawMessage) string {
	for _, f := range fields {
		if len(f) == 0 || string(f) == "null" {
			continue
		}

		var s string
		if err := json.Unmarshal(f, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}

		var n json.Number
		if err := json.Unmarshal(f, &n); err == nil {
			if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil && v > 0 {
				if v > 1e12 {
					return normalize.FormatTime(time.UnixMilli(v))
				}
				return normalize.FormatTime(time.Unix(v, 0))
			}
		}
	}
	return ""
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
