// Package seed 提供静态的演示内容，仅在没有持久化快照时用于初始化 store。
package seed

import (
	"time"

	"haishublog/internal/models"
	"haishublog/internal/store"
)

func date(y int, m time.Month, d, hh int) time.Time {
	return time.Date(y, m, d, hh, 0, 0, 0, time.Local)
}

func ptr(t time.Time) *time.Time { return &t }

// Snapshot 返回一份全新的种子快照，调用方可以随意修改
func Snapshot() *store.Snapshot {
	return &store.Snapshot{
		Users:         users(),
		Articles:      articles(),
		Comments:      comments(),
		Notifications: notifications(),
		Favorites:     map[string][]string{},
	}
}

func users() []models.User {
	return []models.User{
		{
			ID:        "1",
			Name:      "海叔",
			Email:     "haishublog@example.com",
			Avatar:    "🍵",
			Bio:       "喝茶、拍照、写字。记录生活里值得留下来的部分。",
			Role:      models.RoleAdmin,
			CreatedAt: date(2023, time.March, 12, 9),
		},
		{
			ID:        "2",
			Name:      "小满",
			Email:     "xiaoman@example.com",
			Avatar:    "🌿",
			Bio:       "茶室常客",
			Role:      models.RoleUser,
			CreatedAt: date(2023, time.June, 2, 14),
		},
		{
			ID:        "3",
			Name:      "阿北",
			Email:     "abei@example.com",
			Avatar:    "📷",
			Bio:       "胶片爱好者，偶尔写点东西",
			Role:      models.RoleUser,
			CreatedAt: date(2023, time.September, 18, 20),
		},
	}
}

func articles() []models.Article {
	return []models.Article{
		{
			ID:          "101",
			Title:       "冬日煮茶小记",
			Slug:        "winter-tea-notes",
			Excerpt:     "天冷了，围炉煮茶是一年里最值得期待的事。",
			Content:     "## 围炉\n\n入冬之后，泡茶换成了煮茶。\n\n### 器具\n\n- 粗陶壶一把\n- 炭炉\n- 老白茶若干\n\n### 心得\n\n煮茶急不得，水沸三次再出汤，汤色才够厚。",
			CoverImage:  "/assets/img/winter-tea.jpg",
			AuthorID:    "1",
			Category:    "茶话",
			Tags:        []string{"白茶", "煮茶", "冬天"},
			Status:      models.StatusPublished,
			Featured:    true,
			Likes:       42,
			Views:       680,
			CreatedAt:   date(2024, time.December, 21, 10),
			UpdatedAt:   date(2024, time.December, 21, 10),
			PublishedAt: ptr(date(2024, time.December, 21, 10)),
		},
		{
			ID:          "102",
			Title:       "武夷山访茶记",
			Slug:        "wuyishan-tea-trip",
			Excerpt:     "五天时间走了三条坑涧，喝到了今年最好的肉桂。",
			Content:     "## 行程\n\n- 第一天：三坑两涧\n- 第二天：慧苑坑\n- 第三天：拜访做茶的老师傅\n\n## 收获\n\n### 关于岩韵\n\n所谓岩韵，喝过山场的茶才有体会。",
			CoverImage:  "/assets/img/wuyishan.jpg",
			AuthorID:    "1",
			Category:    "茶话",
			Tags:        []string{"岩茶", "游记", "武夷山"},
			Status:      models.StatusPublished,
			Featured:    false,
			Likes:       31,
			Views:       455,
			CreatedAt:   date(2024, time.November, 8, 16),
			UpdatedAt:   date(2024, time.November, 10, 9),
			PublishedAt: ptr(date(2024, time.November, 8, 16)),
		},
		{
			ID:          "103",
			Title:       "用胶片拍茶山",
			Slug:        "film-photos-tea-mountain",
			Excerpt:     "带着一台老相机上山，回来冲出来的片子比数码多了一层雾气。",
			Content:     "## 器材\n\n- Nikon FM2\n- 柯达金 200\n\n## 几点体会\n\n胶片宽容度有限，清晨逆光要果断加一档曝光。",
			CoverImage:  "/assets/img/film-mountain.jpg",
			AuthorID:    "1",
			Category:    "摄影",
			Tags:        []string{"胶片", "茶山", "器材"},
			Status:      models.StatusPublished,
			Featured:    false,
			Likes:       57,
			Views:       812,
			CreatedAt:   date(2024, time.October, 2, 8),
			UpdatedAt:   date(2024, time.October, 2, 8),
			PublishedAt: ptr(date(2024, time.October, 2, 8)),
		},
		{
			ID:          "104",
			Title:       "院子里的四季",
			Slug:        "courtyard-four-seasons",
			Excerpt:     "从春分到冬至，院子里值得记录的变化。",
			Content:     "## 春\n\n玉兰先开。\n\n## 夏\n\n- 蝉声\n- 凉茶\n\n## 秋冬\n\n落叶扫了三遍，索性不扫了。",
			CoverImage:  "/assets/img/courtyard.jpg",
			AuthorID:    "1",
			Category:    "生活",
			Tags:        []string{"院子", "随笔"},
			Status:      models.StatusPublished,
			Featured:    false,
			Likes:       23,
			Views:       340,
			CreatedAt:   date(2024, time.September, 23, 19),
			UpdatedAt:   date(2024, time.September, 23, 19),
			PublishedAt: ptr(date(2024, time.September, 23, 19)),
		},
		{
			ID:        "105",
			Title:     "2025 年想做的几件事",
			Slug:      "plans-for-2025",
			Excerpt:   "草稿，想到哪写到哪。",
			Content:   "## 待办\n\n- 把茶室重新布置一遍\n- 学会冲洗彩负\n- 多写，少刷手机",
			AuthorID:  "1",
			Category:  "生活",
			Tags:      []string{"计划", "随笔"},
			Status:    models.StatusDraft,
			Likes:     0,
			Views:     0,
			CreatedAt: date(2025, time.January, 1, 22),
			UpdatedAt: date(2025, time.January, 1, 22),
		},
	}
}

func comments() []models.Comment {
	return []models.Comment{
		{
			ID:        "201",
			ArticleID: "101",
			UserID:    "2",
			Content:   "看完马上把家里的白茶翻出来煮了，确实比泡的厚。",
			Likes:     5,
			CreatedAt: date(2024, time.December, 21, 15),
		},
		{
			ID:        "202",
			ArticleID: "101",
			UserID:    "3",
			Content:   "炭炉比电炉有味道，就是麻烦。",
			Likes:     2,
			CreatedAt: date(2024, time.December, 22, 9),
		},
		{
			ID:        "203",
			ArticleID: "103",
			UserID:    "2",
			Content:   "雾气那张太好看了，求原图。",
			Likes:     8,
			CreatedAt: date(2024, time.October, 3, 11),
		},
	}
}

func notifications() []models.Notification {
	return []models.Notification{
		{
			ID:        "301",
			UserID:    "1",
			Type:      models.NotificationTypeComment,
			Title:     "新评论",
			Message:   "小满评论了你的文章《冬日煮茶小记》",
			RelatedID: "101",
			IsRead:    false,
			CreatedAt: date(2024, time.December, 21, 15),
		},
		{
			ID:        "302",
			UserID:    "1",
			Type:      models.NotificationTypeLike,
			Title:     "收到点赞",
			Message:   "阿北赞了你的文章《用胶片拍茶山》",
			RelatedID: "103",
			IsRead:    true,
			CreatedAt: date(2024, time.October, 3, 12),
		},
	}
}
