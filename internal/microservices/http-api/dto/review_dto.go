package dto

import (
	"time"

	"eshelf/internal/microservices/http-api/models"
)

// CreateReviewDTO for POST /api/reviews; rating defaults to 5
type CreateReviewDTO struct {
	BookISBN string `json:"book_isbn" binding:"required"`
	Rating   *int   `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment  string `json:"comment" binding:"required,max=1000"`
}

// UpdateReviewDTO keeps current values for omitted fields
type UpdateReviewDTO struct {
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,min=1,max=1000"`
}

type ReviewerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ReviewResponse for returning review information
type ReviewResponse struct {
	ID         string            `json:"id"`
	BookISBN   string            `json:"book_isbn"`
	Rating     int               `json:"rating"`
	Comment    string            `json:"comment"`
	LikesCount int               `json:"likes_count"`
	Likes      []string          `json:"likes"`
	User       *ReviewerResponse `json:"user,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:         r.ID,
		BookISBN:   r.BookISBN,
		Rating:     r.Rating,
		Comment:    r.Comment,
		LikesCount: len(r.Likes),
		Likes:      []string(r.Likes),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if resp.Likes == nil {
		resp.Likes = []string{}
	}
	if r.User != nil {
		resp.User = &ReviewerResponse{ID: r.User.ID, Username: r.User.Username, Avatar: r.User.Avatar}
	}
	return resp
}

func FromModelsToReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, FromModelToReviewResponse(&reviews[i]))
	}
	return out
}

// ReviewStats is the aggregate over a book's active reviews.
type ReviewStats struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalReviews int64   `json:"total_reviews"`
}

type LikeResponse struct {
	LikesCount int  `json:"likes_count"`
	Liked      bool `json:"liked"`
}

// BookRef is the book metadata joined onto a user's reviews and history.
type BookRef struct {
	ISBN     string   `json:"isbn"`
	Title    string   `json:"title"`
	CoverURL string   `json:"cover_url"`
	Authors  []string `json:"authors"`
}

// MyReviewResponse is a review of the caller joined with its book.
type MyReviewResponse struct {
	ReviewResponse
	Book BookRef `json:"book"`
}
