package handlers

import (
	"net/http"

	"haishublog/internal/middleware"
	"haishublog/internal/store"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store *store.Store
}

func NewNotificationHandler(st *store.Store) *NotificationHandler {
	return &NotificationHandler{store: st}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notifications := h.store.NotificationsFor(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

func (h *NotificationHandler) Unread(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notifications := h.store.UnreadNotifications(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// Read 单条标记已读。已读的再标一次是 no-op，幂等。
func (h *NotificationHandler) Read(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := c.Param("id")

	found := false
	for _, n := range h.store.NotificationsFor(user.ID) {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		RenderError(c, http.StatusNotFound, "通知不存在")
		return
	}

	h.store.MarkNotificationAsRead(id)
	c.Status(http.StatusOK)
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := middleware.CurrentUser(c)

	for _, n := range h.store.UnreadNotifications(user.ID) {
		h.store.MarkNotificationAsRead(n.ID)
	}
	c.Status(http.StatusOK)
}
