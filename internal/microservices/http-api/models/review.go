package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const DefaultRating = 5

type Review struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	BookISBN  string         `json:"book_isbn" gorm:"column:book_isbn;not null;uniqueIndex:idx_review_book_user"`
	UserID    string         `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_book_user;index"`
	Rating    int            `json:"rating" gorm:"not null;default:5;check:rating >= 1 AND rating <= 5"`
	Comment   string         `json:"comment" gorm:"type:varchar(1000);not null"`
	Likes     pq.StringArray `json:"likes" gorm:"type:text[];not null;default:'{}'"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Likes == nil {
		r.Likes = pq.StringArray{}
	}
	return nil
}
