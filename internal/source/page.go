package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/pribylovaa/news-radar/internal/models"
	"github.com/pribylovaa/news-radar/internal/normalize"
)

// ErrNoContent — страница загрузилась, но заголовок извлечь не удалось.
var ErrNoContent = errors.New("no extractable content")

// FetchPage загружает одну страницу (путь ручного добавления) и извлекает из неё кандидата.
//
// Заголовок: og:title, затем результат readability, затем <title> и <h1>.
// Текст: основной текст readability, иначе meta description.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*models.RawContent, error) {
	const op = "source.FetchPage"

	ctx, cancel := context.WithTimeout(ctx, f.opts.SourceTimeout)
	defer cancel()

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := f.get(ctx, pageURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item, err := ParsePage(raw, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// ParsePage — разбор HTML одиночной страницы без сети.
func ParsePage(raw []byte, base *url.URL) (*models.RawContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// readability не обязателен: страница без «основного текста» всё ещё годится по meta.
	art, rerr := readability.FromReader(bytes.NewReader(raw), base)

	title := firstNonEmpty(
		meta(doc, "meta[property='og:title']"),
		readabilityField(rerr, art.Title),
		collapse(doc.Find("title").First().Text()),
		collapse(doc.Find("h1").First().Text()),
	)
	if title = collapse(title); title == "" {
		return nil, ErrNoContent
	}

	body := firstNonEmpty(
		readabilityField(rerr, art.TextContent),
		meta(doc, "meta[name='description']"),
		meta(doc, "meta[property='og:description']"),
		readabilityField(rerr, art.Excerpt),
	)

	image := firstNonEmpty(meta(doc, "meta[property='og:image']"), readabilityField(rerr, art.Image))
	if image != "" {
		if abs, ok := normalize.Resolve(base, image); ok {
			image = abs
		} else {
			image = ""
		}
	}

	published := meta(doc, "meta[property='article:published_time']")
	if published == "" && rerr == nil && art.PublishedTime != nil {
		published = normalize.FormatTime(*art.PublishedTime)
	}

	return &models.RawContent{
		Title:     title,
		Link:      base.String(),
		Body:      strings.TrimSpace(body),
		Image:     image,
		Published: published,
	}, nil
}

func meta(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func readabilityField(err error, v string) string {
	if err != nil {
		return ""
	}
	return v
}
