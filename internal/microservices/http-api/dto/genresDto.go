package dto

import "eshelf/internal/microservices/http-api/models"

// CreateGenreDTO for POST /api/books/genres
type CreateGenreDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGenreDTO for PUT /api/books/genres/:slug
type UpdateGenreDTO struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type GenreResponse struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	BookCount int64  `json:"book_count"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		Name:      g.Name,
		Slug:      g.Slug,
		BookCount: g.BookCount,
	}
}
