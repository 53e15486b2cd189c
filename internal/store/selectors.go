package store

import (
	"math"
	"sort"
	"strings"

	"haishublog/internal/models"
	"haishublog/internal/utils"
)

// 派生视图选择器：对快照状态的纯函数投影，相同输入必然产生相同输出，
// 不修改传入数据，可以按输入安全缓存。

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts 统计已发布文章的分类分布，按数量降序，
// 数量相同时保持分类在文章列表中的首次出现顺序。
func CategoryCounts(articles []models.Article) []CategoryCount {
	var order []string
	counts := make(map[string]int)
	for _, a := range articles {
		if !a.IsPublished() {
			continue
		}
		if _, seen := counts[a.Category]; !seen {
			order = append(order, a.Category)
		}
		counts[a.Category]++
	}

	out := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PopularTags 汇总已发布文章的标签频次，取前 n 个
func PopularTags(articles []models.Article, n int) []TagCount {
	var order []string
	counts := make(map[string]int)
	for _, a := range articles {
		if !a.IsPublished() {
			continue
		}
		for _, tag := range a.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentArticles 已发布文章按创建时间倒序取前 n 篇
func RecentArticles(articles []models.Article, n int) []models.Article {
	out := publishedOnly(articles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return limit(out, n)
}

// PopularArticles 已发布文章按浏览量倒序取前 n 篇
func PopularArticles(articles []models.Article, n int) []models.Article {
	out := publishedOnly(articles)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Views > out[j].Views
	})
	return limit(out, n)
}

// FeaturedArticles 已发布的精选文章，按创建时间倒序
func FeaturedArticles(articles []models.Article) []models.Article {
	var out []models.Article
	for _, a := range articles {
		if a.IsPublished() && a.Featured {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SearchArticles 在已发布文章中做大小写不敏感的子串匹配
// （标题、摘要、标签、分类），category 非空时额外要求分类相等。
// 空查询等价于不过滤，结果按创建时间倒序。
func SearchArticles(articles []models.Article, query, category string) []models.Article {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Article
	for _, a := range articles {
		if !a.IsPublished() {
			continue
		}
		if category != "" && a.Category != category {
			continue
		}
		if query != "" && !articleMatches(&a, query) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func articleMatches(a *models.Article, query string) bool {
	if strings.Contains(strings.ToLower(a.Title), query) ||
		strings.Contains(strings.ToLower(a.Excerpt), query) ||
		strings.Contains(strings.ToLower(a.Category), query) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// TrendingArticles 按热度降序取前 n 篇已发布文章。
// 热度综合点赞、评论数、收藏数并随时间衰减，见 utils.CalculateScore。
func TrendingArticles(snap *Snapshot, n int) []models.Article {
	commentCounts := make(map[string]int)
	for _, c := range snap.Comments {
		commentCounts[c.ArticleID]++
	}
	favoriteCounts := make(map[string]int)
	for _, ids := range snap.Favorites {
		for _, id := range ids {
			favoriteCounts[id]++
		}
	}

	out := publishedOnly(snap.Articles)
	scores := make(map[string]float64, len(out))
	for _, a := range out {
		scores[a.ID] = utils.CalculateScore(a.CreatedAt, a.Likes, favoriteCounts[a.ID], commentCounts[a.ID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i].ID] > scores[out[j].ID]
	})
	return limit(out, n)
}

type Stats struct {
	TotalArticles      int `json:"total_articles"`
	PublishedArticles  int `json:"published_articles"`
	DraftArticles      int `json:"draft_articles"`
	TotalUsers         int `json:"total_users"`
	TotalComments      int `json:"total_comments"`
	TotalViews         int `json:"total_views"`
	TotalLikes         int `json:"total_likes"`
	AvgViewsPerArticle int `json:"avg_views_per_article"`
}

// ComputeStats 后台总览的聚合统计，平均浏览量对零篇文章保护为 0
func ComputeStats(snap *Snapshot) Stats {
	stats := Stats{
		TotalArticles: len(snap.Articles),
		TotalUsers:    len(snap.Users),
		TotalComments: len(snap.Comments),
	}
	for _, a := range snap.Articles {
		stats.TotalViews += a.Views
		stats.TotalLikes += a.Likes
		switch a.Status {
		case models.StatusPublished:
			stats.PublishedArticles++
		case models.StatusDraft:
			stats.DraftArticles++
		}
	}
	if stats.TotalArticles > 0 {
		stats.AvgViewsPerArticle = int(math.Round(float64(stats.TotalViews) / float64(stats.TotalArticles)))
	}
	return stats
}

func publishedOnly(articles []models.Article) []models.Article {
	var out []models.Article
	for _, a := range articles {
		if a.IsPublished() {
			out = append(out, a)
		}
	}
	return out
}

func limit(articles []models.Article, n int) []models.Article {
	if n > 0 && len(articles) > n {
		return articles[:n]
	}
	return articles
}
