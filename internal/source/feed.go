package source

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/news-radar/internal/models"
)

// ParseFeed разбирает RSS/Atom/JSON Feed и возвращает до limit самых свежих записей.
// Записи без заголовка или ссылки пропускаются (skipped), остальные не страдают.
func ParseFeed(raw []byte, limit int) ([]models.RawContent, int, error) {
	const op = "source.ParseFeed"

	if looksLikeHTML(raw) {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrNotFeed)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}

	items := append([]*gofeed.Item(nil), feed.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).After(itemTime(items[j]))
	})

	var (
		output  []models.RawContent
		skipped int
	)
	for _, item := range items {
		if limit > 0 && len(output) == limit {
			break
		}
		if item == nil {
			skipped++
			continue
		}

		title := strings.TrimSpace(item.Title)
		link := itemLink(item)
		if title == "" || link == "" {
			skipped++
			continue
		}

		body := strings.TrimSpace(item.Content)
		if body == "" {
			body = strings.TrimSpace(item.Description)
		}

		published := strings.TrimSpace(item.Published)
		if published == "" {
			published = strings.TrimSpace(item.Updated)
		}

		output = append(output, models.RawContent{
			Title:     title,
			Link:      link,
			Body:      body,
			Image:     pickImageURL(item),
			Published: published,
			Tags:      item.Categories,
		})
	}

	return output, skipped, nil
}

// itemTime — время записи для сортировки; записи без даты уходят в конец.
func itemTime(item *gofeed.Item) time.Time {
	if item == nil {
		return time.Time{}
	}
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// itemLink — ссылка записи; guid используется, только если это полноценный URL.
func itemLink(item *gofeed.Item) string {
	if l := strings.TrimSpace(item.Link); l != "" {
		return l
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	if g := strings.TrimSpace(item.GUID); strings.HasPrefix(g, "http://") || strings.HasPrefix(g, "https://") {
		return g
	}
	return ""
}

// pickImageURL выбирает URL обложки в порядке приоритетов:
// 1) item.Image;
// 2) enclosure image/* (если несколько — c max length, иначе последний);
// 3) media:content / media:thumbnail (image/* или пустой type);
// 4) первая <img src> из content, затем из description.
func pickImageURL(item *gofeed.Item) string {
	if item.Image != nil && strings.TrimSpace(item.Image.URL) != "" {
		return strings.TrimSpace(item.Image.URL)
	}

	var bestURL string
	var bestLen int64

	for _, e := range item.Enclosures {
		if e == nil || e.URL == "" {
			continue
		}

		if t := strings.ToLower(e.Type); t != "" && !strings.HasPrefix(t, "image/") {
			continue
		}

		length, _ := strconv.ParseInt(strings.TrimSpace(e.Length), 10, 64)
		if length > 0 && length >= bestLen {
			bestLen, bestURL = length, e.URL
			continue
		}

		if bestLen == 0 {
			bestURL = e.URL
		}
	}

	if bestURL != "" {
		return bestURL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, m := range media["content"] {
			u, typ := m.Attrs["url"], strings.ToLower(m.Attrs["type"])
			if u != "" && (typ == "" || strings.HasPrefix(typ, "image/")) {
				return u
			}
		}
		for _, m := range media["thumbnail"] {
			if u := m.Attrs["url"]; u != "" {
				return u
			}
		}
	}

	if u := firstImgSrc(item.Content); u != "" {
		return u
	}

	return firstImgSrc(item.Description)
}

// firstImgSrc — src первого <img> с непустым адресом во фрагменте HTML.
func firstImgSrc(html string) string {
	if !strings.Contains(strings.ToLower(html), "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src = strings.TrimSpace(sel.AttrOr("src", ""))
		return src == ""
	})

	return src
}

// looksLikeHTML — ответ начинается как HTML-страница, а не XML/JSON-лента.
func looksLikeHTML(raw []byte) bool {
	head := bytes.TrimLeft(raw, " \t\r\n\ufeff")
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)

	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}
