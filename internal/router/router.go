package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"haishublog/internal/handlers"
	"haishublog/internal/middleware"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载全部 API 路由与 SPA 静态资源。
// staticDir 为空时跳过静态托管（测试场景）。
func RegisterRoutes(r *gin.Engine, st *store.Store, cache *utils.Cache, staticDir string) {
	// Handlers
	authHandler := handlers.NewAuthHandler(st)
	articleHandler := handlers.NewArticleHandler(st, cache)
	commentHandler := handlers.NewCommentHandler(st)
	favoriteHandler := handlers.NewFavoriteHandler(st)
	notificationHandler := handlers.NewNotificationHandler(st)
	adminHandler := handlers.NewAdminHandler(st)
	legacyHandler := handlers.NewLegacyHandler(st)

	r.Use(middleware.LoadUser(st))

	api := r.Group("/api")
	{
		// 认证
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/register", authHandler.Register)
		api.GET("/auth/me", authHandler.Me)

		// 公共读取
		api.GET("/articles", articleHandler.List)                        // 列表 + 搜索过滤
		api.GET("/articles/featured", articleHandler.Featured)           // 精选
		api.GET("/articles/recent", articleHandler.Recent)               // 最新
		api.GET("/articles/popular", articleHandler.Popular)             // 按浏览量
		api.GET("/articles/trending", articleHandler.Trending)           // 按热度
		api.GET("/article/:slug", articleHandler.Detail)                 // 详情（slug 路由）
		api.GET("/article/:slug/comments", commentHandler.ListForArticle)
		api.GET("/categories", articleHandler.Categories) // 侧边栏分类
		api.GET("/tags", articleHandler.Tags)             // 侧边栏标签云

		// 旧版静态页面端点
		api.GET("/featured-articles", legacyHandler.FeaturedArticles)
		api.GET("/articles-by-category", legacyHandler.ArticlesByCategory)
		api.GET("/article", legacyHandler.ArticleByID)

		// 受保护路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.POST("/articles", articleHandler.Create)
			authorized.PUT("/articles/:id", articleHandler.Update)
			authorized.DELETE("/articles/:id", articleHandler.Delete)
			authorized.POST("/articles/:id/like", articleHandler.Like)

			authorized.POST("/comments", commentHandler.Create)
			authorized.POST("/comments/:id/like", commentHandler.Like)

			authorized.GET("/favorites", favoriteHandler.List)
			authorized.POST("/favorites/:id", favoriteHandler.Toggle)

			authorized.GET("/notifications", notificationHandler.List)
			authorized.GET("/notifications/unread", notificationHandler.Unread)
			authorized.POST("/notifications/:id/read", notificationHandler.Read)
			authorized.POST("/notifications/read-all", notificationHandler.ReadAll)
		}

		// 后台路由
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.Users)
			admin.GET("/articles", adminHandler.Articles)
		}
	}

	if staticDir == "" {
		return
	}

	// SPA 静态资源：/assets 直出，其余未匹配路径回退到 index.html
	r.Static("/assets", filepath.Join(staticDir, "assets"))
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
