package models

import (
	"time"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

type Article struct {
	ID          string        `gorm:"primaryKey;size:32" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"` // 详情页唯一路由标识
	Excerpt     string        `gorm:"type:text" json:"excerpt"`
	Content     string        `gorm:"type:text" json:"content"` // 原始 Markdown
	CoverImage  string        `json:"cover_image"`
	AuthorID    string        `gorm:"index;size:32" json:"author_id"`
	Category    string        `gorm:"index" json:"category"`
	Tags        []string      `gorm:"type:text;serializer:json" json:"tags"`
	Status      ArticleStatus `gorm:"size:20;default:'draft'" json:"status"` // draft, published, archived
	Featured    bool          `json:"featured"`
	Likes       int           `gorm:"default:0" json:"likes"`
	Views       int           `gorm:"default:0" json:"views"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PublishedAt *time.Time    `json:"published_at"`

	// 非持久化字段，查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}
