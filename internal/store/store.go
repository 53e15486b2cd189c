package store

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"haishublog/internal/auth"
	"haishublog/internal/models"
	"haishublog/internal/utils"
)

// Store 会话与内容状态的唯一数据源。
// 所有变更动作在锁内完成后统一走 afterCommit：先通知订阅者，再尽力持久化。
// 未知 id 一律静默 no-op，动作本身从不返回错误。
type Store struct {
	mu            sync.RWMutex
	currentUser   *models.User
	users         []models.User
	articles      []models.Article
	comments      []models.Comment
	notifications []models.Notification
	favorites     map[string][]string // user id -> article ids
	lastID        int64

	verifier  auth.Verifier
	persister Persister

	subMu       sync.Mutex
	subscribers map[int]func(*Snapshot)
	nextSubID   int
}

// New 从初始快照构建 store。initial 为 nil 时从零开始。
// persister 可以为 nil（纯内存模式，测试用）。
func New(initial *Snapshot, verifier auth.Verifier, persister Persister) *Store {
	s := &Store{
		verifier:    verifier,
		persister:   persister,
		favorites:   make(map[string][]string),
		subscribers: make(map[int]func(*Snapshot)),
	}
	if initial != nil {
		snap := initial.Clone()
		s.currentUser = snap.CurrentUser
		s.users = snap.Users
		s.articles = snap.Articles
		s.comments = snap.Comments
		s.notifications = snap.Notifications
		if snap.Favorites != nil {
			s.favorites = snap.Favorites
		}
	}
	return s
}

// Subscribe 注册一个在每次变更提交后收到最新快照的回调，返回取消函数。
// 回调在持久化之前同步执行，不要在回调里再调用变更动作。
func (s *Store) Subscribe(fn func(*Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) afterCommit(snap *Snapshot) {
	s.subMu.Lock()
	fns := make([]func(*Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}

	if s.persister == nil {
		return
	}
	// 持久化失败只记日志，内存状态仍是权威
	if err := s.persister.Save(snap); err != nil {
		log.Printf("store: snapshot save failed: %v", err)
	}
}

// snapshotLocked 必须持有读锁或写锁时调用
func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Users:         s.users,
		Articles:      s.articles,
		Comments:      s.comments,
		Notifications: s.notifications,
		Favorites:     s.favorites,
		CurrentUser:   s.currentUser,
	}
	return snap.Clone()
}

// Snapshot 返回当前状态的独立拷贝
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// newIDLocked 生成毫秒时间戳 id，同一毫秒内多次调用递增保证唯一
func (s *Store) newIDLocked() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// ---------- 认证 ----------

// Login 按邮箱查找用户并校验凭证，成功时设置 currentUser。
// 任何不匹配都返回 false，不改变现有状态。
func (s *Store) Login(email, credential string) bool {
	s.mu.Lock()
	i := s.userIndexByEmailLocked(email)
	if i < 0 || s.verifier == nil || !s.verifier.Verify(&s.users[i], credential) {
		s.mu.Unlock()
		return false
	}
	u := s.users[i]
	s.currentUser = &u
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
	return true
}

// Logout 清除 currentUser，总是成功
func (s *Store) Logout() {
	s.mu.Lock()
	s.currentUser = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
	Bio      string
}

// Register 创建新用户并设为 currentUser。邮箱已存在时返回 false。
func (s *Store) Register(in RegisterInput) bool {
	s.mu.Lock()
	if s.userIndexByEmailLocked(in.Email) >= 0 {
		s.mu.Unlock()
		return false
	}

	user := models.User{
		ID:        s.newIDLocked(),
		Name:      in.Name,
		Email:     in.Email,
		Avatar:    in.Avatar,
		Bio:       in.Bio,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if user.Avatar == "" {
		user.Avatar = "🌱"
	}
	if in.Password != "" {
		if hash, err := auth.HashPassword(in.Password); err == nil {
			user.PasswordHash = hash
		} else {
			log.Printf("store: hash password failed: %v", err)
		}
	}

	s.users = append(s.users, user)
	u := user
	s.currentUser = &u
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
	return true
}

// CurrentUser 返回当前登录用户的拷贝，未登录时为 nil
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

// ---------- 文章 ----------

type ArticleInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	AuthorID   string
	Category   string
	Tags       []string
	Status     models.ArticleStatus
	Featured   bool
}

// AddArticle 新文章插入到列表头部（最新优先），likes/views 归零。
// slug 为空时由标题生成，冲突时追加随机后缀保证唯一。
func (s *Store) AddArticle(in ArticleInput) models.Article {
	s.mu.Lock()
	now := time.Now()

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}

	article := models.Article{
		ID:         s.newIDLocked(),
		Title:      in.Title,
		Slug:       s.uniqueSlugLocked(in.Slug, in.Title, ""),
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		CoverImage: in.CoverImage,
		AuthorID:   in.AuthorID,
		Category:   in.Category,
		Tags:       append([]string(nil), in.Tags...),
		Status:     status,
		Featured:   in.Featured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == models.StatusPublished {
		article.PublishedAt = &now
	}

	s.articles = append([]models.Article{article}, s.articles...)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
	return article
}

type ArticleUpdate struct {
	Title      *string
	Slug       *string
	Excerpt    *string
	Content    *string
	CoverImage *string
	Category   *string
	Tags       *[]string
	Status     *models.ArticleStatus
	Featured   *bool
}

// UpdateArticle 将部分更新合并进目标文章并刷新 UpdatedAt，id 不存在时 no-op。
// likes/views 不可经由更新修改，计数器只有自增入口。
func (s *Store) UpdateArticle(id string, upd ArticleUpdate) {
	s.mu.Lock()
	i := s.articleIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	a := &s.articles[i]
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Slug != nil && *upd.Slug != a.Slug {
		a.Slug = s.uniqueSlugLocked(*upd.Slug, a.Title, a.ID)
	}
	if upd.Excerpt != nil {
		a.Excerpt = *upd.Excerpt
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.CoverImage != nil {
		a.CoverImage = *upd.CoverImage
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.Tags != nil {
		a.Tags = append([]string(nil), (*upd.Tags)...)
	}
	if upd.Status != nil {
		a.Status = *upd.Status
		if a.Status == models.StatusPublished && a.PublishedAt == nil {
			now := time.Now()
			a.PublishedAt = &now
		}
	}
	if upd.Featured != nil {
		a.Featured = *upd.Featured
	}
	a.UpdatedAt = time.Now()

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

// DeleteArticle 硬删除文章并级联删除其全部评论
func (s *Store) DeleteArticle(id string) {
	s.mu.Lock()
	i := s.articleIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	s.articles = append(s.articles[:i], s.articles[i+1:]...)

	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ArticleID != id {
			kept = append(kept, c)
		}
	}
	s.comments = kept

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

// LikeArticle 点赞计数 +1，id 不存在时 no-op
func (s *Store) LikeArticle(id string) {
	s.mu.Lock()
	i := s.articleIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.articles[i].Likes++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

// IncrementViews 浏览计数 +1，id 不存在时 no-op
func (s *Store) IncrementViews(id string) {
	s.mu.Lock()
	i := s.articleIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.articles[i].Views++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

func (s *Store) Articles() []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneArticles(s.articles)
}

func (s *Store) ArticleByID(id string) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.articleIndexLocked(id)
	if i < 0 {
		return models.Article{}, false
	}
	a := s.articles[i]
	a.Tags = append([]string(nil), a.Tags...)
	return a, true
}

// ArticleBySlug slug 是详情页唯一的查找键
func (s *Store) ArticleBySlug(slug string) (models.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.Slug == slug {
			a.Tags = append([]string(nil), a.Tags...)
			return a, true
		}
	}
	return models.Article{}, false
}

// ---------- 评论 ----------

type CommentInput struct {
	ArticleID string
	UserID    string
	Content   string
}

// AddComment 追加到评论列表尾部，likes 归零
func (s *Store) AddComment(in CommentInput) models.Comment {
	s.mu.Lock()
	comment := models.Comment{
		ID:        s.newIDLocked(),
		ArticleID: in.ArticleID,
		UserID:    in.UserID,
		Content:   in.Content,
		CreatedAt: time.Now(),
	}
	s.comments = append(s.comments, comment)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
	return comment
}

// LikeComment 点赞计数 +1，id 不存在时 no-op
func (s *Store) LikeComment(id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.comments {
		if s.comments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.comments[idx].Likes++
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Comment(nil), s.comments...)
}

// CommentsForArticle 按创建时间正序返回某篇文章的评论
func (s *Store) CommentsForArticle(articleID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) CommentByID(id string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments {
		if c.ID == id {
			return c, true
		}
	}
	return models.Comment{}, false
}

// ---------- 收藏 ----------

// ToggleFavorite 在指定用户的收藏集合中切换一篇文章，幂等往返。
// 收藏按用户维度隔离，userID 为空时 no-op。
func (s *Store) ToggleFavorite(userID, articleID string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	ids := s.favorites[userID]
	removed := false
	for i, id := range ids {
		if id == articleID {
			s.favorites[userID] = append(ids[:i], ids[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		s.favorites[userID] = append(ids, articleID)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

func (s *Store) IsFavorite(userID, articleID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.favorites[userID] {
		if id == articleID {
			return true
		}
	}
	return false
}

func (s *Store) FavoriteIDs(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.favorites[userID]...)
}

// ---------- 通知 ----------

type NotificationInput struct {
	UserID    string
	Type      models.NotificationType
	Title     string
	Message   string
	RelatedID string
}

// AddNotification 新通知插入到列表头部
func (s *Store) AddNotification(in NotificationInput) models.Notification {
	s.mu.Lock()
	n := models.Notification{
		ID:        s.newIDLocked(),
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		RelatedID: in.RelatedID,
		CreatedAt: time.Now(),
	}
	s.notifications = append([]models.Notification{n}, s.notifications...)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
	return n
}

// MarkNotificationAsRead 只允许 false→true 的单向转换，重复调用与未知 id 都是 no-op
func (s *Store) MarkNotificationAsRead(id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].IsRead {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.notifications[idx].IsRead = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.afterCommit(snap)
}

// NotificationsFor 某用户的全部通知，保持新到旧的存储顺序
func (s *Store) NotificationsFor(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// UnreadNotifications 某用户的未读通知
func (s *Store) UnreadNotifications(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// ---------- 用户 ----------

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.userIndexByEmailLocked(email)
	if i < 0 {
		return models.User{}, false
	}
	return s.users[i], true
}

// ---------- 内部查找 ----------

func (s *Store) articleIndexLocked(id string) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) userIndexByEmailLocked(email string) int {
	for i := range s.users {
		if s.users[i].Email == email {
			return i
		}
	}
	return -1
}

// uniqueSlugLocked 生成在现存文章中唯一的 slug。
// excludeID 非空时忽略该文章自身（更新场景）。
func (s *Store) uniqueSlugLocked(slug, title, excludeID string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" {
		slug = utils.RandomString(8)
	}
	candidate := slug
	for s.slugTakenLocked(candidate, excludeID) {
		candidate = slug + "-" + utils.RandomString(4)
	}
	return candidate
}

func (s *Store) slugTakenLocked(slug, excludeID string) bool {
	for i := range s.articles {
		if s.articles[i].Slug == slug && s.articles[i].ID != excludeID {
			return true
		}
	}
	return false
}
