package models

import (
	"time"
)

// Favorite 收藏记录 - 按用户维度存储，仅用于 Postgres 快照后端
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index;size:32;uniqueIndex:idx_user_article" json:"user_id"`
	ArticleID string    `gorm:"not null;index;size:32;uniqueIndex:idx_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}
