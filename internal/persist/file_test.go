package persist

import (
	"path/filepath"
	"testing"
	"time"

	"haishublog/internal/models"
	"haishublog/internal/store"
)

func TestFilePersisterRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "blog-storage.json")
	p := NewFilePersister(path)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := &store.Snapshot{
		CurrentUser: &models.User{ID: "1", Name: "海叔", Email: "haishublog@example.com", Role: models.RoleAdmin, CreatedAt: now},
		Users: []models.User{
			{ID: "1", Name: "海叔", Email: "haishublog@example.com", PasswordHash: "bcrypt-不外泄", Role: models.RoleAdmin, CreatedAt: now},
		},
		Articles: []models.Article{
			{ID: "101", Title: "春茶", Slug: "spring-tea", Category: "茶话", Tags: []string{"绿茶"}, Status: models.StatusPublished, Views: 7, CreatedAt: now, UpdatedAt: now, PublishedAt: &now},
		},
		Comments: []models.Comment{
			{ID: "201", ArticleID: "101", UserID: "1", Content: "自顶一个", CreatedAt: now},
		},
		Notifications: []models.Notification{
			{ID: "301", UserID: "1", Type: models.NotificationTypeComment, Title: "新评论", CreatedAt: now},
		},
		Favorites: map[string][]string{"1": {"101"}},
	}

	if err := p.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after save")
	}
	if loaded.CurrentUser == nil || loaded.CurrentUser.ID != "1" {
		t.Errorf("current user lost in roundtrip: %+v", loaded.CurrentUser)
	}
	if len(loaded.Articles) != 1 || loaded.Articles[0].Slug != "spring-tea" {
		t.Errorf("articles lost in roundtrip: %+v", loaded.Articles)
	}
	if loaded.Articles[0].PublishedAt == nil || !loaded.Articles[0].PublishedAt.Equal(now) {
		t.Error("published_at lost in roundtrip")
	}
	if got := loaded.Favorites["1"]; len(got) != 1 || got[0] != "101" {
		t.Errorf("favorites lost in roundtrip: %+v", loaded.Favorites)
	}
	// 密码哈希不应进快照 JSON
	if loaded.Users[0].PasswordHash != "" {
		t.Error("password hash must not survive JSON roundtrip")
	}
}

func TestFilePersisterLoadMissingFile(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "missing.json"))

	snap, ok, err := p.Load()
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if ok || snap != nil {
		t.Error("missing file must report ok=false, nil snapshot")
	}
}

func TestFilePersisterOverwrite(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "snap.json"))

	if err := p.Save(&store.Snapshot{Articles: []models.Article{{ID: "1", Title: "旧"}}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := p.Save(&store.Snapshot{Articles: []models.Article{{ID: "2", Title: "新"}}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, ok, err := p.Load()
	if err != nil || !ok {
		t.Fatalf("load after overwrite: ok=%v err=%v", ok, err)
	}
	if len(loaded.Articles) != 1 || loaded.Articles[0].ID != "2" {
		t.Errorf("latest save must win, got %+v", loaded.Articles)
	}
}
