package models

import (
	"time"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:32" json:"id"`
	ArticleID string    `gorm:"not null;index;size:32" json:"article_id"`
	UserID    string    `gorm:"not null;index;size:32" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int       `gorm:"default:0" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}
