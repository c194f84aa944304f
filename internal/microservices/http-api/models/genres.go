package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eshelf/internal/textnorm"
)

type Genre struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	BookCount   int64     `json:"book_count" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps the slug in step with the name.
func (g *Genre) BeforeSave(tx *gorm.DB) error {
	if g.Name != "" {
		g.Slug = textnorm.Slug(g.Name)
	}
	return nil
}
