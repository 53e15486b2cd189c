package store

import (
	"haishublog/internal/models"
)

// Snapshot 某一时刻全量状态的独立拷贝。
// 字段集合即持久化子集：current_user, users, articles, comments, notifications, favorites。
type Snapshot struct {
	CurrentUser   *models.User          `json:"current_user"`
	Users         []models.User         `json:"users"`
	Articles      []models.Article      `json:"articles"`
	Comments      []models.Comment      `json:"comments"`
	Notifications []models.Notification `json:"notifications"`
	Favorites     map[string][]string   `json:"favorites"` // user id -> article ids
}

// Persister 负责快照落盘与启动恢复。Save 尽力而为，失败不影响内存状态。
// Load 的第二个返回值表示是否存在已持久化的快照。
type Persister interface {
	Save(snap *Snapshot) error
	Load() (*Snapshot, bool, error)
}

func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Users:         append([]models.User(nil), s.Users...),
		Articles:      cloneArticles(s.Articles),
		Comments:      append([]models.Comment(nil), s.Comments...),
		Notifications: append([]models.Notification(nil), s.Notifications...),
		Favorites:     cloneFavorites(s.Favorites),
	}
	if s.CurrentUser != nil {
		u := *s.CurrentUser
		out.CurrentUser = &u
	}
	return out
}

func cloneArticles(in []models.Article) []models.Article {
	out := append([]models.Article(nil), in...)
	for i := range out {
		out[i].Tags = append([]string(nil), out[i].Tags...)
	}
	return out
}

func cloneFavorites(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for userID, ids := range in {
		out[userID] = append([]string(nil), ids...)
	}
	return out
}
