package service

import (
	"context"
	"slices"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
)

// MissingBookTitle replaces the title of books that no longer exist.
const MissingBookTitle = "Book no longer available"

type ReviewService interface {
	ListByBook(ctx context.Context, isbn string, page dto.PageRequest) ([]models.Review, int64, dto.ReviewStats, error)
	Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*models.Review, error)
	Update(ctx context.Context, user *models.User, id string, req dto.UpdateReviewDTO) (*models.Review, error)
	Delete(ctx context.Context, user *models.User, id string) error
	// ToggleLike flips the caller's membership in the review's likes.
	ToggleLike(ctx context.Context, userID, id string) (dto.LikeResponse, error)
	MyReviews(ctx context.Context, userID string) ([]dto.MyReviewResponse, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	books   repository.BookRepository
}

func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository) ReviewService {
	return &reviewService{reviews: reviews, books: books}
}

func (s *reviewService) ListByBook(ctx context.Context, isbn string, page dto.PageRequest) ([]models.Review, int64, dto.ReviewStats, error) {
	list, total, err := s.reviews.ListByBook(ctx, isbn, page.Page, page.Limit)
	if err != nil {
		return nil, 0, dto.ReviewStats{}, err
	}
	avg, err := s.reviews.AverageByBook(ctx, isbn)
	if err != nil {
		return nil, 0, dto.ReviewStats{}, err
	}
	return list, total, dto.ReviewStats{AvgRating: avg, TotalReviews: total}, nil
}

func (s *reviewService) Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*models.Review, error) {
	if _, err := s.books.FindActive(ctx, req.BookISBN); err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}

	exists, err := s.reviews.Exists(ctx, req.BookISBN, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rating := models.DefaultRating
	if req.Rating != nil {
		rating = *req.Rating
	}
	review := &models.Review{
		BookISBN: req.BookISBN,
		UserID:   userID,
		Rating:   rating,
		Comment:  req.Comment,
		IsActive: true,
	}
	// a concurrent duplicate still fails on the unique index
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.reviews.FindActive(ctx, review.ID)
}

func (s *reviewService) Update(ctx context.Context, user *models.User, id string, req dto.UpdateReviewDTO) (*models.Review, error) {
	review, err := s.reviews.FindActive(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	if review.UserID != user.ID {
		return nil, ErrNotReviewOwner
	}

	rating, comment := review.Rating, review.Comment
	if req.Rating != nil {
		rating = *req.Rating
	}
	if req.Comment != nil {
		comment = *req.Comment
	}
	if err := s.reviews.UpdateContent(ctx, id, rating, comment); err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	review.Rating, review.Comment = rating, comment
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, user *models.User, id string) error {
	review, err := s.reviews.FindActive(ctx, id)
	if err != nil {
		return notFound(err, ErrReviewNotFound)
	}
	if review.UserID != user.ID && !user.IsAdmin() {
		return ErrNotReviewOwner
	}
	return notFound(s.reviews.Deactivate(ctx, id), ErrReviewNotFound)
}

func (s *reviewService) ToggleLike(ctx context.Context, userID, id string) (dto.LikeResponse, error) {
	review, err := s.reviews.FindActive(ctx, id)
	if err != nil {
		return dto.LikeResponse{}, notFound(err, ErrReviewNotFound)
	}

	liked := !slices.Contains(review.Likes, userID)
	if liked {
		_, err = s.reviews.AddLike(ctx, id, userID)
	} else {
		_, err = s.reviews.RemoveLike(ctx, id, userID)
	}
	if err != nil {
		return dto.LikeResponse{}, err
	}

	review, err = s.reviews.FindActive(ctx, id)
	if err != nil {
		return dto.LikeResponse{}, notFound(err, ErrReviewNotFound)
	}
	return dto.LikeResponse{LikesCount: len(review.Likes), Liked: slices.Contains(review.Likes, userID)}, nil
}

func (s *reviewService) MyReviews(ctx context.Context, userID string) ([]dto.MyReviewResponse, error) {
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	isbns := make([]string, 0, len(reviews))
	for _, r := range reviews {
		isbns = append(isbns, r.BookISBN)
	}
	refs, err := s.books.FindRefs(ctx, isbns)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MyReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.MyReviewResponse{
			ReviewResponse: dto.FromModelToReviewResponse(&reviews[i]),
			Book:           bookRef(reviews[i].BookISBN, refs),
		})
	}
	return out, nil
}

// bookRef returns the display fields of isbn, or a placeholder when the
// book no longer exists.
func bookRef(isbn string, refs map[string]models.Book) dto.BookRef {
	b, ok := refs[isbn]
	if !ok {
		return dto.BookRef{ISBN: isbn, Title: MissingBookTitle, CoverURL: models.DefaultBookCover, Authors: []string{}}
	}
	authors := []string(b.Authors)
	if authors == nil {
		authors = []string{}
	}
	return dto.BookRef{ISBN: b.ISBN, Title: b.Title, CoverURL: b.CoverURL, Authors: authors}
}
