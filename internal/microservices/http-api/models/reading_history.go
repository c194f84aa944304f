package models

import "time"

// ReadingHistory is one entry of a user's reading history, unique per book.
type ReadingHistory struct {
	UserID    string    `gorm:"type:uuid;not null;primaryKey" json:"user_id"`
	BookISBN  string    `gorm:"column:book_isbn;not null;primaryKey" json:"book_isbn"`
	Progress  int       `gorm:"not null;default:0;check:progress >= 0 AND progress <= 100" json:"progress"`
	LastRead  time.Time `gorm:"not null" json:"last_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name used by ReadingHistory to `reading_history`
func (ReadingHistory) TableName() string {
	return "reading_history"
}
