package handlers

import (
	"fmt"
	"net/http"

	"haishublog/internal/middleware"
	"haishublog/internal/models"
	"haishublog/internal/store"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	store *store.Store
}

func NewCommentHandler(st *store.Store) *CommentHandler {
	return &CommentHandler{store: st}
}

// ListForArticle 按 slug 返回文章的评论，创建时间正序
func (h *CommentHandler) ListForArticle(c *gin.Context) {
	slug := c.Param("slug")

	article, ok := h.store.ArticleBySlug(slug)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	comments := h.store.CommentsForArticle(article.ID)
	c.JSON(http.StatusOK, gin.H{
		"comments": commentViews(h.store, comments),
		"total":    len(comments),
	})
}

type commentCreateRequest struct {
	ArticleID string `json:"article_id"`
	Content   string `json:"content"`
}

// Create 发表评论。评论创建时必须指向存在的文章，作者收到通知。
func (h *CommentHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}
	if req.Content == "" {
		RenderError(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}

	article, ok := h.store.ArticleByID(req.ArticleID)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	comment := h.store.AddComment(store.CommentInput{
		ArticleID: article.ID,
		UserID:    user.ID,
		Content:   req.Content,
	})

	if article.AuthorID != user.ID {
		h.store.AddNotification(store.NotificationInput{
			UserID:    article.AuthorID,
			Type:      models.NotificationTypeComment,
			Title:     "新评论",
			Message:   fmt.Sprintf("%s 评论了你的文章《%s》", user.Name, article.Title),
			RelatedID: article.ID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"comment": commentView{Comment: comment, User: publicUser(user)}})
}

// Like 评论点赞
func (h *CommentHandler) Like(c *gin.Context) {
	id := c.Param("id")

	comment, ok := h.store.CommentByID(id)
	if !ok {
		RenderError(c, http.StatusNotFound, "评论不存在")
		return
	}

	h.store.LikeComment(id)

	if user := middleware.CurrentUser(c); user != nil && user.ID != comment.UserID {
		h.store.AddNotification(store.NotificationInput{
			UserID:    comment.UserID,
			Type:      models.NotificationTypeLike,
			Title:     "收到点赞",
			Message:   fmt.Sprintf("%s 赞了你的评论", user.Name),
			RelatedID: comment.ArticleID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"likes": comment.Likes + 1})
}
