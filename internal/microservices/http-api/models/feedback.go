package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackPending    = "pending"
	FeedbackProcessing = "processing"
	FeedbackResolved   = "resolved"
	FeedbackRejected   = "rejected"

	DefaultFeedbackType = "other"
)

type Feedback struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       *string    `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	ErrorType    string     `json:"error_type" gorm:"not null;default:'other';index"`
	ErrorSubType string     `json:"error_sub_type"`
	Content      string     `json:"content" gorm:"type:varchar(2000);not null"`
	Status       string     `json:"status" gorm:"not null;default:'pending';index"`
	AdminNote    string     `json:"admin_note"`
	ResolvedBy   *string    `json:"resolved_by,omitempty" gorm:"type:uuid"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
