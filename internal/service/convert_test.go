package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-radar/internal/models"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, content string
		want           models.Category
	}{
		{"New benchmark for code models", "", models.CategoryResearch},
		{"Paper: scaling laws revisited", "", models.CategoryResearch},
		{"Introducing Claude for Chrome", "", models.CategoryProduct},
		{"v2 released today", "", models.CategoryProduct},
		{"Startup raises $20M", "", models.CategoryIndustry},
		{"A meme generator", "", models.CategoryFun},
		{"Kernel scheduling internals", "", models.CategoryTech},
		{"某公司完成新一轮融资", "", models.CategoryIndustry},
		{"开源模型正式发布", "", models.CategoryProduct},
		// Подстроки латинских слов не срабатывают.
		{"Funny side of ipv6", "", models.CategoryTech},
		{"Notes", "This study shows", models.CategoryResearch},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, classify(tc.title, tc.content), tc.title)
	}
}

func TestFinalizeArticle(t *testing.T) {
	t.Parallel()

	src := models.Source{Name: "Feed A", Category: models.CategoryFun, Weight: 0.8}
	raw := models.RawContent{
		Title:     "<b>Hello</b> &amp; world",
		Link:      "https://x.example/a/?utm_medium=feed#top",
		Body:      strings.Repeat("я", 50),
		Image:     "data:image/png;base64,xx",
		Published: "garbage",
		Tags:      []string{"go", " Go ", "", "a,b"},
	}

	a, ok := finalizeArticle(raw, src, fixedNow, 10)
	require.True(t, ok)
	require.Equal(t, "Hello & world", a.Title)
	require.Equal(t, "https://x.example/a", a.URL)
	require.Equal(t, 10, len([]rune(a.Content)))
	require.Contains(t, a.ImageURL, "picsum.photos")
	require.Equal(t, fixedNow, a.PublishedAt)
	require.Equal(t, models.CategoryFun, a.Category)
	require.Equal(t, 0.8, a.SourceWeight)
	require.Equal(t, []string{"go", "a b"}, a.Tags)
	require.Len(t, a.ID, 36)
	require.NotEmpty(t, a.Fingerprint)
	require.Equal(t, models.SummaryTemplate, a.SummaryKind)

	_, ok = finalizeArticle(models.RawContent{Title: "x", Link: "mailto:a@b"}, src, fixedNow, 10)
	require.False(t, ok)
}
