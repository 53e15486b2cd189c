package handlers

import (
	"net/http"
	"strings"

	"haishublog/internal/middleware"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	store *store.Store
}

func NewAuthHandler(st *store.Store) *AuthHandler {
	return &AuthHandler{store: st}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}
	if req.Email == "" || req.Password == "" {
		RenderError(c, http.StatusBadRequest, "邮箱和密码不能为空")
		return
	}

	if !h.store.Login(req.Email, req.Password) {
		RenderError(c, http.StatusUnauthorized, "邮箱或密码错误")
		return
	}

	// 并发登录时全局 currentUser 可能已被覆盖，按本次请求的邮箱取回用户
	user, ok := h.store.UserByEmail(req.Email)
	if !ok {
		RenderError(c, http.StatusInternalServerError, "用户状态异常")
		return
	}
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": publicUser(&user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.store.Logout()

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Status(http.StatusOK)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RenderError(c, http.StatusBadRequest, "请求格式不正确")
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		RenderError(c, http.StatusBadRequest, "邮箱格式不正确")
		return
	}
	if len(req.Password) < 6 {
		RenderError(c, http.StatusBadRequest, "密码至少6位")
		return
	}
	if req.Name == "" {
		req.Name = parts[0]
	}
	if req.Avatar == "" {
		req.Avatar = utils.GetRandomEmoji()
	}

	ok := h.store.Register(store.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	})
	if !ok {
		RenderError(c, http.StatusConflict, "邮箱已注册")
		return
	}

	// 同 Login：按邮箱取回，不依赖全局 currentUser
	user, found := h.store.UserByEmail(req.Email)
	if !found {
		RenderError(c, http.StatusInternalServerError, "用户状态异常")
		return
	}
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{"user": publicUser(&user)})
}

// Me 返回当前登录用户及未读通知数
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		RenderError(c, http.StatusUnauthorized, "未登录")
		return
	}
	unread := 0
	if count, ok := c.Get(middleware.UnreadCountKey); ok {
		unread = count.(int)
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         publicUser(user),
		"unread_count": unread,
	})
}
