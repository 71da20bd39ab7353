package source

import (
	"time"

	"github.com/pribylovaa/news-radar/internal/heat"
	"github.com/pribylovaa/news-radar/internal/models"
)

type seed struct {
	name     string
	url      string
	kind     models.SourceKind
	category models.Category
	strategy string
	tier     models.Tier
	priority int
}

var defaultSeeds = []seed{
	{"Hacker News Frontpage", "https://hnrss.org/frontpage", models.KindFeed, models.CategoryTech, "", models.TierCommunity, 10},
	{"Hacker News AI", "https://hnrss.org/newest?q=AI+OR+machine+learning+OR+GPT+OR+LLM", models.KindFeed, models.CategoryTech, "", models.TierCommunity, 9},

	{"GitHub Trending (all)", "https://github.com/trending", models.KindWeb, models.CategoryFun, strategyGitHubTrending, models.TierCommunity, 8},
	{"GitHub Trending Python", "https://github.com/trending/python", models.KindWeb, models.CategoryFun, strategyGitHubTrending, models.TierCommunity, 6},
	{"GitHub Trending TypeScript", "https://github.com/trending/typescript", models.KindWeb, models.CategoryFun, strategyGitHubTrending, models.TierCommunity, 6},
	{"GitHub Trending Rust", "https://github.com/trending/rust", models.KindWeb, models.CategoryFun, strategyGitHubTrending, models.TierCommunity, 6},

	{"Dev.to AI Tag", "https://dev.to/feed/tag/ai", models.KindFeed, models.CategoryTech, "", models.TierCommunity, 5},
	{"Reddit MachineLearning", "https://www.reddit.com/r/MachineLearning/.rss", models.KindFeed, models.CategoryResearch, "", models.TierResearch, 7},

	{"The Verge AI", "https://www.theverge.com/ai-ml/rss", models.KindFeed, models.CategoryIndustry, "", models.TierMedia, 5},
	{"Ars Technica AI", "https://arstechnica.com/ai/feed/", models.KindFeed, models.CategoryIndustry, "", models.TierMedia, 5},
	{"TechCrunch AI", "https://techcrunch.com/category/artificial-intelligence/feed/", models.KindFeed, models.CategoryProduct, "", models.TierMedia, 5},

	{"OSChina 资讯", "https://www.oschina.net/news/rss", models.KindFeed, models.CategoryTech, "", models.TierMedia, 4},
	{"V2EX 技术", "https://www.v2ex.com/index.xml", models.KindFeed, models.CategoryTech, "", models.TierCommunity, 4},
	{"InfoQ 中文", "https://www.infoq.cn/feed", models.KindFeed, models.CategoryIndustry, "", models.TierMedia, 4},
}

// DefaultSources — набор источников, которым заполняется пустая база при первом запуске.
func DefaultSources() []models.Source {
	out := make([]models.Source, 0, len(defaultSeeds))
	for _, s := range defaultSeeds {
		out = append(out, models.Source{
			Name:          s.name,
			URL:           s.url,
			Kind:          s.kind,
			Category:      s.category,
			Strategy:      s.strategy,
			FetchInterval: 30 * time.Minute,
			IsActive:      true,
			Priority:      s.priority,
			Weight:        heat.WeightFor(s.tier),
		})
	}
	return out
}
