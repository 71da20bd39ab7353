package source

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
)

// Extractor — стратегия извлечения кандидатов из HTML-страницы (Web и Headless).
type Extractor interface {
	Name() string
	Extract(doc *goquery.Document, base *url.URL, src models.Source, limit int) ([]models.RawContent, int)
}

// Registry хранит стратегии извлечения по имени.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{}}
}

// DefaultRegistry — реестр со встроенными стратегиями anchors и github-trending.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Anchors{})
	r.Register(GitHubTrending{})
	return r
}

// Register добавляет или заменяет стратегию.
func (r *Registry) Register(e Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]Extractor{}
	}
	r.extractors[e.Name()] = e
}

// Resolve возвращает стратегию по имени; пустое имя означает anchors.
func (r *Registry) Resolve(name string) (Extractor, error) {
	if name == "" {
		name = strategyAnchors
	}
	if e, ok := r.extractors[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("strategy %s is not registered", name)
}

// Strategies возвращает реестр стратегий для регистрации дополнительных.
func (f *Fetcher) Strategies() *Registry {
	return f.strategies
}

// extract разбирает HTML и применяет стратегию источника.
func (f *Fetcher) extract(raw []byte, src models.Source, limit int) ([]models.RawContent, int, error) {
	const op = "source.extract"

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	ex, err := f.strategies.Resolve(src.Strategy)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}

	items, skipped := ex.Extract(doc, base, src, limit)
	return items, skipped, nil
}

const (
	strategyAnchors        = "anchors"
	strategyGitHubTrending = "github-trending"
)

// Anchors — общая стратегия: пары «текст ссылки + href».
// Относительные ссылки разрешаются от адреса источника, повторы по href отбрасываются.
type Anchors struct{}

func (Anchors) Name() string { return strategyAnchors }

func (Anchors) Extract(doc *goquery.Document, base *url.URL, src models.Source, limit int) ([]models.RawContent, int) {
	selector := strings.TrimSpace(src.Selector)
	if selector == "" {
		selector = "a[href]"
	}

	var (
		output  []models.RawContent
		skipped int
		seen    = map[string]struct{}{}
	)

	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(output) == limit {
			return false
		}

		a := s
		if goquery.NodeName(s) != "a" {
			a = s.Find("a[href]").First()
		}
		href, _ := a.Attr("href")
		link, ok := normalize.Resolve(base, href)
		title := collapse(a.Text())
		if !ok || title == "" {
			skipped++
			return true
		}
		if _, dup := seen[link]; dup {
			return true
		}
		seen[link] = struct{}{}

		output = append(output, models.RawContent{Title: title, Link: link})
		return true
	})

	return output, skipped
}

// GitHubTrending разбирает страницу github.com/trending:
// название репозитория, описание, язык и число звёзд (в сигнал likes).
type GitHubTrending struct{}

func (GitHubTrending) Name() string { return strategyGitHubTrending }

func (GitHubTrending) Extract(doc *goquery.Document, base *url.URL, _ models.Source, limit int) ([]models.RawContent, int) {
	var (
		output  []models.RawContent
		skipped int
	)

	doc.Find("article.Box-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if limit > 0 && len(output) == limit {
			return false
		}

		a := row.Find("h2 a").First()
		href, _ := a.Attr("href")
		link, ok := normalize.Resolve(base, href)
		name := reSlash.ReplaceAllString(collapse(a.Text()), "/")
		if !ok || name == "" {
			skipped++
			return true
		}

		title := name
		if lang := collapse(row.Find("span[itemprop='programmingLanguage']").First().Text()); lang != "" {
			title = fmt.Sprintf("%s [%s]", name, lang)
		}

		stars := ParseCount(row.Find("a[href$='/stargazers']").First().Text())

		output = append(output, models.RawContent{
			Title:      title,
			Link:       link,
			Body:       collapse(row.Find("p").First().Text()),
			Engagement: models.Engagement{Likes: stars},
		})
		return true
	})

	return output, skipped
}

var (
	reSlash = regexp.MustCompile(`\s*/\s*`)
	reSpace = regexp.MustCompile(`\s+`)
)

func collapse(s string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

// ParseCount разбирает счётчики вида "12,345", "1.2k", "3M".
// Нераспознанная строка даёт 0.
func ParseCount(s string) int64 {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}

	return int64(v*mult + 0.5)
}
