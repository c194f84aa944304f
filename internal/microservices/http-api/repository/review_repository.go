package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindActive(ctx context.Context, id string) (*models.Review, error)
	Exists(ctx context.Context, isbn, userID string) (bool, error)
	ListByBook(ctx context.Context, isbn string, page, limit int) ([]models.Review, int64, error)
	RecentByBook(ctx context.Context, isbn string, limit int) ([]models.Review, error)
	AverageByBook(ctx context.Context, isbn string) (float64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	UpdateContent(ctx context.Context, id string, rating int, comment string) error
	Deactivate(ctx context.Context, id string) error
	AddLike(ctx context.Context, id, userID string) (bool, error)
	RemoveLike(ctx context.Context, id, userID string) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func withReviewer(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "avatar")
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) FindActive(ctx context.Context, id string) (*models.Review, error) {
	var rv models.Review
	if err := r.db.WithContext(ctx).Preload("User", withReviewer).
		First(&rv, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// Exists ignores the active flag: the (book, user) pair stays unique even
// after a review is deactivated.
func (r *reviewRepository) Exists(ctx context.Context, isbn, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("book_isbn = ? AND user_id = ?", isbn, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, isbn string, page, limit int) ([]models.Review, int64, error) {
	var list []models.Review
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Review{}).Where("book_isbn = ? AND is_active = ?", isbn, true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Preload("User", withReviewer).
		Where("book_isbn = ? AND is_active = ?", isbn, true).
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return list, total, nil
}

func (r *reviewRepository) RecentByBook(ctx context.Context, isbn string, limit int) ([]models.Review, error) {
	var list []models.Review
	if err := r.db.WithContext(ctx).
		Preload("User", withReviewer).
		Where("book_isbn = ? AND is_active = ?", isbn, true).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}
	return list, nil
}

func (r *reviewRepository) AverageByBook(ctx context.Context, isbn string) (float64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Where("book_isbn = ? AND is_active = ?", isbn, true).
		Scan(&avg).Error; err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	var list []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return list, nil
}

func (r *reviewRepository) UpdateContent(ctx context.Context, id string, rating int, comment string) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"rating": rating, "comment": comment})
	if res.Error != nil {
		return fmt.Errorf("update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) Deactivate(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) AddLike(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND is_active = ? AND NOT (? = ANY(likes))", id, true, userID).
		UpdateColumn("likes", gorm.Expr("array_append(likes, ?)", userID))
	if res.Error != nil {
		return false, fmt.Errorf("like review: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepository) RemoveLike(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND is_active = ? AND ? = ANY(likes)", id, true, userID).
		UpdateColumn("likes", gorm.Expr("array_remove(likes, ?)", userID))
	if res.Error != nil {
		return false, fmt.Errorf("unlike review: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
