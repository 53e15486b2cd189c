package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"haishublog/internal/auth"
	"haishublog/internal/router"
	"haishublog/internal/seed"
	"haishublog/internal/store"
	"haishublog/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newTestServer() (*gin.Engine, *store.Store) {
	gin.SetMode(gin.TestMode)

	st := store.New(seed.Snapshot(), auth.MockVerifier{}, nil)
	cache := utils.NewCache(64)
	st.Subscribe(func(*store.Snapshot) {
		cache.Flush()
	})

	r := gin.New()
	r.Use(sessions.Sessions("haishublog_session", cookie.NewStore([]byte("test-secret"))))
	router.RegisterRoutes(r, st, cache, "")
	return r, st
}

func doJSON(r http.Handler, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response: %v\n%s", err, w.Body.String())
	}
	return out
}

// login 走真实登录接口拿会话 cookie
func login(t *testing.T, r http.Handler, email, password string) []*http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s failed: %d %s", email, w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login response carries no session cookie")
	}
	return cookies
}

func TestLoginFlow(t *testing.T) {
	r, _ := newTestServer()

	// 错误口令
	w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "haishublog@example.com", "password": "nope"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	// 未登录访问 me
	if w := doJSON(r, http.MethodGet, "/api/auth/me", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous me, got %d", w.Code)
	}

	cookies := login(t, r, "haishublog@example.com", "password123")

	w = doJSON(r, http.MethodGet, "/api/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("me with session: expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	user := body["user"].(map[string]interface{})
	if user["email"] != "haishublog@example.com" || user["role"] != "admin" {
		t.Errorf("unexpected me payload: %v", user)
	}
	// 种子里有一条未读通知
	if body["unread_count"].(float64) != 1 {
		t.Errorf("expected unread_count 1, got %v", body["unread_count"])
	}
}

// 登录响应必须绑定本次请求认证的账户，
// 并发登录互相覆盖全局 currentUser 时也不能串号。
func TestLoginBindsRequestedUser(t *testing.T) {
	r, _ := newTestServer()

	creds := []struct{ email, password string }{
		{"haishublog@example.com", "password123"},
		{"xiaoman@example.com", "123456"},
	}

	var wg sync.WaitGroup
	errs := make(chan string, 20)
	for i := 0; i < 10; i++ {
		for _, cred := range creds {
			wg.Add(1)
			go func(email, password string) {
				defer wg.Done()
				w := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": password}, nil)
				if w.Code != http.StatusOK {
					errs <- fmt.Sprintf("login %s: unexpected status %d", email, w.Code)
					return
				}
				var body struct {
					User struct {
						Email string `json:"email"`
					} `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					errs <- fmt.Sprintf("login %s: bad JSON: %v", email, err)
					return
				}
				if body.User.Email != email {
					errs <- fmt.Sprintf("login %s: response bound to %s", email, body.User.Email)
				}
			}(cred.email, cred.password)
		}
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newTestServer()

	// 密码太短
	w := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.com", "password": "123"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", w.Code)
	}

	// 残缺邮箱：缺域名、缺本地部分、没有 @
	for _, email := range []string{"a@", "@b.com", "nobody"} {
		w := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{"email": email, "password": "longenough"}, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for email %q, got %d", email, w.Code)
		}
	}

	w = doJSON(r, http.MethodPost, "/api/auth/register", gin.H{"email": "chaqi@example.com", "password": "longenough"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	user := decode(t, w)["user"].(map[string]interface{})
	// 名字缺省取邮箱前缀
	if user["name"] != "chaqi" {
		t.Errorf("expected default name from email prefix, got %v", user["name"])
	}

	// 重复邮箱
	w = doJSON(r, http.MethodPost, "/api/auth/register", gin.H{"email": "chaqi@example.com", "password": "longenough"}, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestArticleList(t *testing.T) {
	r, _ := newTestServer()

	w := doJSON(r, http.MethodGet, "/api/articles", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	// 4 篇已发布，草稿不出现在公共列表
	if body["total"].(float64) != 4 {
		t.Fatalf("expected 4 published articles, got %v", body["total"])
	}
	for _, item := range body["articles"].([]interface{}) {
		if item.(map[string]interface{})["slug"] == "plans-for-2025" {
			t.Error("draft must not appear in public list")
		}
	}

	// 分类过滤
	w = doJSON(r, http.MethodGet, "/api/articles?category=%E8%8C%B6%E8%AF%9D", nil, nil)
	if got := decode(t, w)["total"].(float64); got != 2 {
		t.Errorf("expected 2 articles in 茶话, got %v", got)
	}
}

func TestArticleDetail(t *testing.T) {
	r, st := newTestServer()

	before, _ := st.ArticleByID("101")

	w := doJSON(r, http.MethodGet, "/api/article/winter-tea-notes", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	article := body["article"].(map[string]interface{})
	if article["views"].(float64) != float64(before.Views+1) {
		t.Errorf("detail view must bump views: %v", article["views"])
	}
	if body["content_html"] == "" {
		t.Error("expected rendered content_html")
	}
	if body["author"].(map[string]interface{})["name"] != "海叔" {
		t.Errorf("unexpected author: %v", body["author"])
	}
	if len(body["comments"].([]interface{})) != 2 {
		t.Errorf("expected 2 seed comments, got %v", body["comments"])
	}

	// 草稿对匿名访客 404
	if w := doJSON(r, http.MethodGet, "/api/article/plans-for-2025", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("draft must 404 for anonymous, got %d", w.Code)
	}
	// 对作者可见
	cookies := login(t, r, "haishublog@example.com", "password123")
	if w := doJSON(r, http.MethodGet, "/api/article/plans-for-2025", nil, cookies); w.Code != http.StatusOK {
		t.Errorf("draft must be visible to its author, got %d", w.Code)
	}
}

func TestArticleCreateUpdateDelete(t *testing.T) {
	r, _ := newTestServer()

	// 未登录
	if w := doJSON(r, http.MethodPost, "/api/articles", gin.H{"title": "x", "content": "y"}, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}

	admin := login(t, r, "haishublog@example.com", "password123")

	// 空标题
	if w := doJSON(r, http.MethodPost, "/api/articles", gin.H{"title": "", "content": "y"}, admin); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty title, got %d", w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/articles", gin.H{
		"title":    "测试新文章",
		"content":  "# 一些正文\n\n![图](https://example.com/x.jpg)",
		"category": "茶话",
		"status":   "published",
	}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	article := decode(t, w)["article"].(map[string]interface{})
	id := article["id"].(string)
	if article["excerpt"] == "" || article["cover_image"] != "https://example.com/x.jpg" {
		t.Errorf("excerpt/cover must be derived from content: %v", article)
	}

	// 部分更新
	w = doJSON(r, http.MethodPut, "/api/articles/"+id, gin.H{"title": "改过的标题"}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d %s", w.Code, w.Body.String())
	}
	updated := decode(t, w)["article"].(map[string]interface{})
	if updated["title"] != "改过的标题" || updated["category"] != "茶话" {
		t.Errorf("partial update merged wrong: %v", updated)
	}

	// 非作者不能改别人的文章
	guest := login(t, r, "xiaoman@example.com", "123456")
	if w := doJSON(r, http.MethodPut, "/api/articles/"+id, gin.H{"title": "篡改"}, guest); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author update, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/articles/"+id, nil, guest); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-author delete, got %d", w.Code)
	}

	if w := doJSON(r, http.MethodDelete, "/api/articles/"+id, nil, admin); w.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/articles", nil, nil); decode(t, w)["total"].(float64) != 4 {
		t.Error("deleted article must leave the list")
	}
}

func TestFavoriteToggle(t *testing.T) {
	r, _ := newTestServer()
	cookies := login(t, r, "xiaoman@example.com", "123456")

	w := doJSON(r, http.MethodPost, "/api/favorites/101", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["is_favorite"] != true || body["count"].(float64) != 1 {
		t.Errorf("first toggle: %v", body)
	}

	w = doJSON(r, http.MethodGet, "/api/favorites", nil, cookies)
	if got := decode(t, w)["total"].(float64); got != 1 {
		t.Errorf("expected 1 favorite in list, got %v", got)
	}

	// 再切一次回到原状
	w = doJSON(r, http.MethodPost, "/api/favorites/101", nil, cookies)
	body = decode(t, w)
	if body["is_favorite"] != false || body["count"].(float64) != 0 {
		t.Errorf("second toggle: %v", body)
	}

	// 不存在的文章
	if w := doJSON(r, http.MethodPost, "/api/favorites/9999", nil, cookies); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing article, got %d", w.Code)
	}
}

func TestCommentsAndNotifications(t *testing.T) {
	r, _ := newTestServer()
	guest := login(t, r, "xiaoman@example.com", "123456")

	w := doJSON(r, http.MethodPost, "/api/comments", gin.H{"article_id": "102", "content": "读完想去武夷山"}, guest)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}

	// 指向不存在文章的评论被拒绝
	if w := doJSON(r, http.MethodPost, "/api/comments", gin.H{"article_id": "9999", "content": "x"}, guest); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for comment on missing article, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/article/wuyishan-tea-trip/comments", nil, nil)
	if got := decode(t, w)["total"].(float64); got != 1 {
		t.Errorf("expected 1 comment on article 102, got %v", got)
	}

	// 作者收到评论通知：种子 1 条未读 + 新评论 1 条
	admin := login(t, r, "haishublog@example.com", "password123")
	w = doJSON(r, http.MethodGet, "/api/notifications/unread", nil, admin)
	if got := decode(t, w)["total"].(float64); got != 2 {
		t.Errorf("expected 2 unread notifications, got %v", got)
	}

	// 全部标记已读
	if w := doJSON(r, http.MethodPost, "/api/notifications/read-all", nil, admin); w.Code != http.StatusOK {
		t.Fatalf("read-all: expected 200, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/api/notifications/unread", nil, admin)
	if got := decode(t, w)["total"].(float64); got != 0 {
		t.Errorf("expected 0 unread after read-all, got %v", got)
	}
}

func TestLegacyEndpoints(t *testing.T) {
	r, _ := newTestServer()

	w := doJSON(r, http.MethodGet, "/api/featured-articles", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var featured []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &featured); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(featured) != 1 || featured[0]["slug"] != "winter-tea-notes" {
		t.Errorf("unexpected featured list: %v", featured)
	}

	w = doJSON(r, http.MethodGet, "/api/articles-by-category?category=%E6%91%84%E5%BD%B1", nil, nil)
	var byCategory []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &byCategory); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(byCategory) != 1 {
		t.Errorf("expected 1 摄影 article, got %d", len(byCategory))
	}

	if w := doJSON(r, http.MethodGet, "/api/article?id=101", nil, nil); w.Code != http.StatusOK {
		t.Errorf("legacy article by id: expected 200, got %d", w.Code)
	}
	// 草稿按不存在处理
	if w := doJSON(r, http.MethodGet, "/api/article?id=105", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("legacy draft must 404, got %d", w.Code)
	}
}

func TestAdminEndpoints(t *testing.T) {
	r, _ := newTestServer()

	if w := doJSON(r, http.MethodGet, "/api/admin/stats", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", w.Code)
	}

	guest := login(t, r, "xiaoman@example.com", "123456")
	if w := doJSON(r, http.MethodGet, "/api/admin/stats", nil, guest); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	admin := login(t, r, "haishublog@example.com", "password123")
	w := doJSON(r, http.MethodGet, "/api/admin/stats", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stats := decode(t, w)["stats"].(map[string]interface{})
	if stats["total_articles"].(float64) != 5 || stats["draft_articles"].(float64) != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}

	// 后台文章列表包含草稿
	w = doJSON(r, http.MethodGet, "/api/admin/articles", nil, admin)
	if got := decode(t, w)["total"].(float64); got != 5 {
		t.Errorf("admin article list must include drafts, got %v", got)
	}

	w = doJSON(r, http.MethodGet, "/api/admin/users", nil, admin)
	users := decode(t, w)["users"].([]interface{})
	if len(users) != 3 {
		t.Fatalf("expected 3 seed users, got %d", len(users))
	}
	first := users[0].(map[string]interface{})
	if _, ok := first["days_joined"]; !ok {
		t.Error("admin user view must carry days_joined")
	}
	if _, leaked := first["password_hash"]; leaked {
		t.Error("password hash must not leak through admin user list")
	}
}

func TestCachedSidebarEndpoints(t *testing.T) {
	r, _ := newTestServer()

	w := doJSON(r, http.MethodGet, "/api/categories", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	categories := decode(t, w)["categories"].([]interface{})
	first := categories[0].(map[string]interface{})
	if first["category"] != "茶话" || first["count"].(float64) != 2 {
		t.Errorf("expected 茶话 x2 first, got %v", first)
	}

	// 新文章提交后缓存被冲掉，分类计数立即反映变化
	admin := login(t, r, "haishublog@example.com", "password123")
	doJSON(r, http.MethodPost, "/api/articles", gin.H{"title": "临时", "content": "x", "category": "摄影", "status": "published"}, admin)

	w = doJSON(r, http.MethodGet, "/api/categories", nil, nil)
	categories = decode(t, w)["categories"].([]interface{})
	found := false
	for _, item := range categories {
		entry := item.(map[string]interface{})
		if entry["category"] == "摄影" && entry["count"].(float64) == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("category counts must refresh after commit, got %v", categories)
	}
}
