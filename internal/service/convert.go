package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/news-radar/internal/heat"
	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
	"github.com/pribylovaa/news-radar/internal/summarize"
)

// finalizeArticle доводит кандидата до инвариантов домена:
//   - URL канонизируется, нераспознаваемый URL отбрасывает запись;
//   - Title/Content очищаются от разметки, пустой Title отбрасывает запись;
//   - Content обрезается по budget рун;
//   - PublishedAt := разобранная дата || now;
//   - ImageURL := картинка источника || заглушка по отпечатку;
//   - Summary — шаблонное, Category — рубрика источника или эвристика;
//   - HeatScore считается сразу.
//
// Возвращает (материал, ok=false если запись следует отбросить).
func finalizeArticle(raw models.RawContent, src models.Source, now time.Time, budget int) (models.Article, bool) {
	canonical, err := normalize.CanonicalURL(raw.Link)
	if err != nil {
		return models.Article{}, false
	}

	title := normalize.PlainText(raw.Title)
	if title == "" {
		return models.Article{}, false
	}

	content := normalize.Truncate(normalize.PlainText(raw.Body), budget)
	published, _ := normalize.PublishedAt(raw.Published, now)
	fp := normalize.Fingerprint(canonical, title)

	image := strings.TrimSpace(raw.Image)
	if !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		image = normalize.PlaceholderImage(fp)
	}

	category := src.Category
	if !category.Valid() {
		category = classify(title, content)
	}

	a := models.Article{
		ID:           uuid.NewString(),
		Title:        title,
		Summary:      summarize.Template(title, content),
		SummaryKind:  models.SummaryTemplate,
		Content:      content,
		URL:          canonical,
		ImageURL:     image,
		Fingerprint:  fp,
		Source:       src.Name,
		SourceWeight: src.Weight,
		Category:     category,
		Tags:         cleanTags(raw.Tags),
		PublishedAt:  published,
		FetchedAt:    now,
		Engagement:   raw.Engagement,
	}
	a.HeatScore = heat.Of(a, now)

	return a, true
}

func cleanTags(tags []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", " "))
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Ключевые слова рубрик в порядке проверки. Латинские слова сравниваются целиком,
// «*» в конце означает префикс; прочие ищутся подстрокой.
var categoryRules = []struct {
	category models.Category
	keywords []string
}{
	{models.CategoryResearch, []string{"arxiv", "paper*", "research*", "benchmark*", "dataset*", "study", "论文", "研究", "学术"}},
	{models.CategoryProduct, []string{"launch*", "releas*", "announc*", "introducing", "beta", "发布", "上线", "推出", "产品"}},
	{models.CategoryIndustry, []string{"funding", "raises", "acquir*", "acquisition", "ipo", "valuation", "startup*", "regulat*", "融资", "收购", "行业", "市场", "监管"}},
	{models.CategoryFun, []string{"game*", "meme*", "fun", "toy", "趣", "游戏", "好玩"}},
}

// classify — эвристическая рубрика по заголовку и началу текста; по умолчанию Tech.
func classify(title, content string) models.Category {
	text := strings.ToLower(title + " " + normalize.Truncate(content, 300))
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if !isASCII(kw) {
				if strings.Contains(text, kw) {
					return rule.category
				}
				continue
			}

			prefix, isPrefix := strings.CutSuffix(kw, "*")
			for _, w := range words {
				if w == prefix || (isPrefix && strings.HasPrefix(w, prefix)) {
					return rule.category
				}
			}
		}
	}

	return models.CategoryTech
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
