package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"eshelf/internal/textnorm"
)

const (
	DefaultBookLanguage  = "Tiếng Việt"
	DefaultBookExtension = "PDF"
	DefaultBookCover     = "/images/default-book-cover.jpg"
)

// Book is a catalog entry keyed by ISBN. Inactive books are soft deleted.
type Book struct {
	ISBN          string         `json:"isbn" gorm:"primaryKey;size:32"`
	Title         string         `json:"title" gorm:"not null;index"`
	Description   string         `json:"description"`
	Authors       pq.StringArray `json:"authors" gorm:"type:text[];not null;default:'{}'"`
	Translators   pq.StringArray `json:"translators" gorm:"type:text[];not null;default:'{}'"`
	Publisher     string         `json:"publisher"`
	Genres        pq.StringArray `json:"genres" gorm:"type:text[];not null;default:'{}';index:,type:gin"`
	Year          *int           `json:"year,omitempty" gorm:"index"`
	Language      string         `json:"language" gorm:"not null;default:'Tiếng Việt'"`
	Pages         int            `json:"pages"`
	Extension     string         `json:"extension" gorm:"not null;default:'PDF'"`
	Size          string         `json:"size"`
	PDFURL        string         `json:"pdf_url" gorm:"column:pdf_url;not null"`
	CoverURL      string         `json:"cover_url" gorm:"column:cover_url;not null;default:'/images/default-book-cover.jpg'"`
	ViewCount     int64          `json:"view_count" gorm:"not null;default:0;index"`
	DownloadCount int64          `json:"download_count" gorm:"not null;default:0"`
	FavoriteCount int64          `json:"favorite_count" gorm:"not null;default:0"`
	IsActive      bool           `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt     time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// folded copies used by keyword and compact search
	SearchText    string `json:"-" gorm:"not null;default:''"`
	SearchCompact string `json:"-" gorm:"not null;default:''"`
}

func (Book) TableName() string {
	return "books"
}

// BeforeSave refreshes the folded search columns.
func (b *Book) BeforeSave(tx *gorm.DB) error {
	b.RefreshSearchText()
	return nil
}

func (b *Book) RefreshSearchText() {
	names := strings.Join(b.Authors, " ")
	b.SearchText = textnorm.Fold(strings.Join([]string{b.Title, names, b.Publisher, b.Description}, " "))
	b.SearchCompact = textnorm.Compact(b.Title + names + b.Publisher)
}

// BookSummary is the projection used by related-book and joined listings.
type BookSummary struct {
	ISBN     string         `json:"isbn"`
	Title    string         `json:"title"`
	Authors  pq.StringArray `json:"authors" gorm:"type:text[]"`
	CoverURL string         `json:"cover_url"`
	Genres   pq.StringArray `json:"genres" gorm:"type:text[]"`
}
