package model

import (
	"time"
)

// User 后台登录用户
type User struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string `json:"email" gorm:"size:191;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Name         string `json:"name" gorm:"not null"`
}

// TableName 自定义表名，避开 user 关键字
func (User) TableName() string {
	return "app_user"
}
