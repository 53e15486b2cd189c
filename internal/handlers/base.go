package handlers

import (
	"haishublog/internal/models"
	"haishublog/internal/store"

	"github.com/gin-gonic/gin"
)

// RenderError JSON 错误响应的统一出口
func RenderError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// publicUser 对外暴露的用户信息（去掉凭证等内部字段由 json 标签保证）
func publicUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// fillCommentCounts 批量填充文章的评论数量
func fillCommentCounts(articles []models.Article, comments []models.Comment) []models.Article {
	if len(articles) == 0 {
		return articles
	}
	countMap := make(map[string]int)
	for _, c := range comments {
		countMap[c.ArticleID]++
	}
	for i := range articles {
		articles[i].CommentCount = countMap[articles[i].ID]
	}
	return articles
}

// commentView 评论带上作者信息，作者被删时 user 为空（可选查找）
type commentView struct {
	models.Comment
	User *models.User `json:"user,omitempty"`
}

func commentViews(st *store.Store, comments []models.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		v := commentView{Comment: c}
		if u, ok := st.UserByID(c.UserID); ok {
			v.User = publicUser(&u)
		}
		out = append(out, v)
	}
	return out
}
