package handlers

import (
	"net/http"

	"haishublog/internal/models"
	"haishublog/internal/store"

	"github.com/gin-gonic/gin"
)

// LegacyHandler 兼容旧版静态页面用的三个端点，
// 返回与 Article 形状一致的 JSON，新客户端不应继续依赖。
type LegacyHandler struct {
	store *store.Store
}

func NewLegacyHandler(st *store.Store) *LegacyHandler {
	return &LegacyHandler{store: st}
}

// FeaturedArticles GET /api/featured-articles
func (h *LegacyHandler) FeaturedArticles(c *gin.Context) {
	c.JSON(http.StatusOK, store.FeaturedArticles(h.store.Articles()))
}

// ArticlesByCategory GET /api/articles-by-category?category=
func (h *LegacyHandler) ArticlesByCategory(c *gin.Context) {
	category := c.Query("category")

	var out []models.Article
	for _, a := range h.store.Articles() {
		if a.IsPublished() && a.Category == category {
			out = append(out, a)
		}
	}
	if out == nil {
		out = []models.Article{}
	}
	c.JSON(http.StatusOK, out)
}

// ArticleByID GET /api/article?id=
func (h *LegacyHandler) ArticleByID(c *gin.Context) {
	id := c.Query("id")

	article, ok := h.store.ArticleByID(id)
	if !ok || !article.IsPublished() {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}
	c.JSON(http.StatusOK, article)
}
