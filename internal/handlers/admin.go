package handlers

import (
	"net/http"
	"sort"

	"haishublog/internal/models"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 后台总览接口，路由层已挂 AdminRequired
type AdminHandler struct {
	store *store.Store
}

func NewAdminHandler(st *store.Store) *AdminHandler {
	return &AdminHandler{store: st}
}

// Stats 仪表盘聚合统计
func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": store.ComputeStats(h.store.Snapshot())})
}

type adminUserView struct {
	models.User
	DaysJoined int `json:"days_joined"`
}

// Users 全部用户，注册时间正序
func (h *AdminHandler) Users(c *gin.Context) {
	users := h.store.Users()
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	out := make([]adminUserView, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserView{User: u, DaysJoined: utils.GetDaysSinceJoined(u.CreatedAt)})
	}
	c.JSON(http.StatusOK, gin.H{
		"users": out,
		"total": len(out),
	})
}

// Articles 全部文章（含草稿和归档），供后台管理表格使用
func (h *AdminHandler) Articles(c *gin.Context) {
	articles := h.store.Articles()
	fillCommentCounts(articles, h.store.Comments())
	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}
