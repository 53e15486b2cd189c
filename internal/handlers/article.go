package handlers

import (
	"fmt"
	"net/http"
	"time"

	"haishublog/internal/middleware"
	"haishublog/internal/models"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	store *store.Store
	cache *utils.Cache
}

func NewArticleHandler(st *store.Store, cache *utils.Cache) *ArticleHandler {
	return &ArticleHandler{store: st, cache: cache}
}

// List 文章列表，支持 q（子串搜索）与 category（分类过滤），
// 只返回已发布文章，按创建时间倒序。
func (h *ArticleHandler) List(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")

	articles := store.SearchArticles(h.store.Articles(), query, category)
	fillCommentCounts(articles, h.store.Comments())

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

// Detail 按 slug 返回文章详情：渲染后的正文、作者、评论、收藏状态。
// 每次访问浏览量 +1。草稿和归档只对作者与管理员可见。
func (h *ArticleHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	article, ok := h.store.ArticleBySlug(slug)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	user := middleware.CurrentUser(c)
	if !article.IsPublished() {
		if user == nil || (user.ID != article.AuthorID && !user.IsAdmin()) {
			RenderError(c, http.StatusNotFound, "文章不存在")
			return
		}
	}

	h.store.IncrementViews(article.ID)
	article.Views++

	comments := h.store.CommentsForArticle(article.ID)
	article.CommentCount = len(comments)

	var author *models.User
	if u, ok := h.store.UserByID(article.AuthorID); ok {
		author = publicUser(&u)
	}

	isFavorite := false
	if user != nil {
		isFavorite = h.store.IsFavorite(user.ID, article.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"article":      article,
		"content_html": utils.RenderMarkdown(article.Content),
		"author":       author,
		"comments":     commentViews(h.store, comments),
		"is_favorite":  isFavorite,
	})
}

type articleCreateRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	Featured   bool     `json:"featured"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req articleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}
	if req.Title == "" {
		RenderError(c, http.StatusBadRequest, "标题不能为空")
		return
	}
	if req.Content == "" {
		RenderError(c, http.StatusBadRequest, "正文不能为空")
		return
	}
	status, ok := parseStatus(req.Status)
	if !ok {
		RenderError(c, http.StatusBadRequest, "无效的文章状态")
		return
	}

	// 摘要和封面允许留空，从正文里补
	if req.Excerpt == "" {
		req.Excerpt = utils.Excerpt(req.Content, 150)
	}
	if req.CoverImage == "" {
		req.CoverImage = utils.ExtractFirstImage(req.Content)
	}

	article := h.store.AddArticle(store.ArticleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		AuthorID:   user.ID,
		Category:   req.Category,
		Tags:       req.Tags,
		Status:     status,
		Featured:   req.Featured,
	})

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

type articleUpdateRequest struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"cover_image"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
	Status     *string   `json:"status"`
	Featured   *bool     `json:"featured"`
}

func (h *ArticleHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")

	article, ok := h.store.ArticleByID(id)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}
	if article.AuthorID != user.ID && !user.IsAdmin() {
		RenderError(c, http.StatusForbidden, "无权编辑此文章")
		return
	}

	var req articleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}
	if req.Title != nil && *req.Title == "" {
		RenderError(c, http.StatusBadRequest, "标题不能为空")
		return
	}

	upd := store.ArticleUpdate{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Tags:       req.Tags,
		Featured:   req.Featured,
	}
	if req.Status != nil {
		status, ok := parseStatus(*req.Status)
		if !ok {
			RenderError(c, http.StatusBadRequest, "无效的文章状态")
			return
		}
		upd.Status = &status
	}

	h.store.UpdateArticle(id, upd)

	updated, _ := h.store.ArticleByID(id)
	c.JSON(http.StatusOK, gin.H{"article": updated})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")

	article, ok := h.store.ArticleByID(id)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}
	if article.AuthorID != user.ID && !user.IsAdmin() {
		RenderError(c, http.StatusForbidden, "无权删除此文章")
		return
	}

	h.store.DeleteArticle(id)
	c.Status(http.StatusOK)
}

// Like 点赞，登录用户触发时给作者发一条通知
func (h *ArticleHandler) Like(c *gin.Context) {
	id := c.Param("id")

	article, ok := h.store.ArticleByID(id)
	if !ok {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	h.store.LikeArticle(id)

	if user := middleware.CurrentUser(c); user != nil && user.ID != article.AuthorID {
		h.store.AddNotification(store.NotificationInput{
			UserID:    article.AuthorID,
			Type:      models.NotificationTypeLike,
			Title:     "收到点赞",
			Message:   fmt.Sprintf("%s 赞了你的文章《%s》", user.Name, article.Title),
			RelatedID: article.ID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"likes": article.Likes + 1})
}

// Featured 精选文章（首页头部位置）
func (h *ArticleHandler) Featured(c *gin.Context) {
	const cacheKey = "articles:featured"
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"articles": store.FeaturedArticles(h.store.Articles())}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

// Recent 最新发布
func (h *ArticleHandler) Recent(c *gin.Context) {
	n := utils.StringToIntDefault(c.Query("limit"), 5)
	cacheKey := fmt.Sprintf("articles:recent:%d", n)
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"articles": store.RecentArticles(h.store.Articles(), n)}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

// Popular 按浏览量排序
func (h *ArticleHandler) Popular(c *gin.Context) {
	n := utils.StringToIntDefault(c.Query("limit"), 5)
	cacheKey := fmt.Sprintf("articles:popular:%d", n)
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"articles": store.PopularArticles(h.store.Articles(), n)}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

// Trending 按热度排序（互动加权 + 时间衰减）
func (h *ArticleHandler) Trending(c *gin.Context) {
	n := utils.StringToIntDefault(c.Query("limit"), 5)
	cacheKey := fmt.Sprintf("articles:trending:%d", n)
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"articles": store.TrendingArticles(h.store.Snapshot(), n)}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

// Categories 分类及文章数（侧边栏）
func (h *ArticleHandler) Categories(c *gin.Context) {
	const cacheKey = "articles:categories"
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"categories": store.CategoryCounts(h.store.Articles())}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

// Tags 高频标签（侧边栏标签云）
func (h *ArticleHandler) Tags(c *gin.Context) {
	n := utils.StringToIntDefault(c.Query("limit"), 15)
	cacheKey := fmt.Sprintf("articles:tags:%d", n)
	if cached := h.cache.Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	data := gin.H{"tags": store.PopularTags(h.store.Articles(), n)}
	h.cache.Set(cacheKey, data, time.Minute)
	c.JSON(http.StatusOK, data)
}

func parseStatus(s string) (models.ArticleStatus, bool) {
	switch models.ArticleStatus(s) {
	case "":
		return models.StatusDraft, true
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return models.ArticleStatus(s), true
	}
	return "", false
}
