package handlers

import (
	"net/http"

	"haishublog/internal/middleware"
	"haishublog/internal/models"
	"haishublog/internal/store"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	store *store.Store
}

func NewFavoriteHandler(st *store.Store) *FavoriteHandler {
	return &FavoriteHandler{store: st}
}

// Toggle 切换收藏状态 - 收藏/取消收藏，按当前用户隔离
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")

	if _, ok := h.store.ArticleByID(id); !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	h.store.ToggleFavorite(user.ID, id)

	c.JSON(http.StatusOK, gin.H{
		"is_favorite": h.store.IsFavorite(user.ID, id),
		"count":       h.favoriteCount(id),
	})
}

// List 当前用户的收藏列表。已删除的文章 id 容忍悬挂引用，直接跳过。
func (h *FavoriteHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var articles []models.Article
	for _, id := range h.store.FavoriteIDs(user.ID) {
		if a, ok := h.store.ArticleByID(id); ok {
			articles = append(articles, a)
		}
	}
	fillCommentCounts(articles, h.store.Comments())

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

func (h *FavoriteHandler) favoriteCount(articleID string) int {
	count := 0
	for _, ids := range h.store.Snapshot().Favorites {
		for _, id := range ids {
			if id == articleID {
				count++
			}
		}
	}
	return count
}
