package dto

import (
	"strings"

	"github.com/lib/pq"

	"eshelf/internal/microservices/http-api/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	ISBN        string   `json:"isbn" binding:"required,max=32"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Authors     []string `json:"authors"`
	Translators []string `json:"translators"`
	Publisher   string   `json:"publisher"`
	Genres      []string `json:"genres"`
	Year        *int     `json:"year,omitempty" binding:"omitempty,min=0,max=3000"`
	Language    string   `json:"language"`
	Pages       int      `json:"pages" binding:"min=0"`
	Extension   string   `json:"extension"`
	Size        string   `json:"size"`
	PDFURL      string   `json:"pdf_url" binding:"required"`
	CoverURL    string   `json:"cover_url"`
}

// UpdateBookDTO used for PUT /api/books/:isbn (partial updates allowed)
type UpdateBookDTO struct {
	Title       *string   `json:"title,omitempty" binding:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Authors     *[]string `json:"authors,omitempty"`
	Translators *[]string `json:"translators,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Genres      *[]string `json:"genres,omitempty"`
	Year        *int      `json:"year,omitempty" binding:"omitempty,min=0,max=3000"`
	Language    *string   `json:"language,omitempty"`
	Pages       *int      `json:"pages,omitempty" binding:"omitempty,min=0"`
	Extension   *string   `json:"extension,omitempty"`
	Size        *string   `json:"size,omitempty"`
	PDFURL      *string   `json:"pdf_url,omitempty" binding:"omitempty,min=1"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	b := models.Book{
		ISBN:        strings.TrimSpace(d.ISBN),
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Authors:     cleanList(d.Authors),
		Translators: cleanList(d.Translators),
		Publisher:   d.Publisher,
		Genres:      cleanList(d.Genres),
		Year:        d.Year,
		Language:    d.Language,
		Pages:       d.Pages,
		Extension:   d.Extension,
		Size:        d.Size,
		PDFURL:      d.PDFURL,
		CoverURL:    d.CoverURL,
		IsActive:    true,
	}
	if b.Language == "" {
		b.Language = models.DefaultBookLanguage
	}
	if b.Extension == "" {
		b.Extension = models.DefaultBookExtension
	}
	if b.CoverURL == "" {
		b.CoverURL = models.DefaultBookCover
	}
	return b
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = strings.TrimSpace(*d.Title)
	}
	if d.Description != nil {
		b.Description = *d.Description
	}
	if d.Authors != nil {
		b.Authors = cleanList(*d.Authors)
	}
	if d.Translators != nil {
		b.Translators = cleanList(*d.Translators)
	}
	if d.Publisher != nil {
		b.Publisher = *d.Publisher
	}
	if d.Genres != nil {
		b.Genres = cleanList(*d.Genres)
	}
	if d.Year != nil {
		b.Year = d.Year
	}
	if d.Language != nil {
		b.Language = *d.Language
	}
	if d.Pages != nil {
		b.Pages = *d.Pages
	}
	if d.Extension != nil {
		b.Extension = *d.Extension
	}
	if d.Size != nil {
		b.Size = *d.Size
	}
	if d.PDFURL != nil {
		b.PDFURL = *d.PDFURL
	}
	if d.CoverURL != nil {
		b.CoverURL = *d.CoverURL
	}
	if d.IsActive != nil {
		b.IsActive = *d.IsActive
	}
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(in []string) pq.StringArray {
	out := pq.StringArray{}
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BookDetailResponse is a book with its most recent reviews inlined.
type BookDetailResponse struct {
	models.Book
	Reviews []ReviewResponse `json:"reviews"`
}

type DownloadResponse struct {
	DownloadCount int64 `json:"download_count"`
}
