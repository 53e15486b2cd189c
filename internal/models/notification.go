package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeArticle NotificationType = "article"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;size:32" json:"id"`
	UserID    string           `gorm:"not null;index;size:32" json:"user_id"` // 接收者
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	RelatedID string           `gorm:"size:32" json:"related_id,omitempty"` // 关联文章/评论
	CreatedAt time.Time        `json:"created_at"`
}
