package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultAvatar = "/images/default-avatar.png"
)

type User struct {
	ID                  string         `gorm:"primaryKey;type:uuid" json:"id"`
	Username            string         `gorm:"uniqueIndex;not null;size:15" json:"username"`
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`
	Password            string         `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role                string         `gorm:"default:'user';not null" json:"role"`    // "user" or "admin"
	Avatar              string         `gorm:"not null;default:'/images/default-avatar.png'" json:"avatar"`
	Favorites           pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"favorites"`
	Bookmarks           pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"bookmarks"`
	ResetPasswordToken  *string        `gorm:"index" json:"-"`
	ResetPasswordExpire *time.Time     `json:"-"`
	IsActive            bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Favorites == nil {
		user.Favorites = pq.StringArray{}
	}
	if user.Bookmarks == nil {
		user.Bookmarks = pq.StringArray{}
	}
	return
}

func (User) TableName() string {
	return "users"
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

// Sanitized returns a copy safe to attach to a request: no password hash
// and no reset token material.
func (user User) Sanitized() *User {
	user.Password = ""
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil
	return &user
}
