package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:32" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"` // bcrypt 哈希，空表示仅支持 mock 口令
	Avatar       string    `gorm:"default:🌱" json:"avatar"` // emoji 头像
	Bio          string    `gorm:"size:200" json:"bio"`     // 个人简介
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
