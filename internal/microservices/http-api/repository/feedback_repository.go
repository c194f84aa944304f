package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/models"
)

type FeedbackFilter struct {
	Status    string
	ErrorType string
}

type FeedbackRepository interface {
	Create(ctx context.Context, f *models.Feedback) error
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
	List(ctx context.Context, f FeedbackFilter, page, limit int) ([]models.Feedback, int64, error)
	StatusCounts(ctx context.Context) (map[string]int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	var f models.Feedback
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	list := []models.Feedback{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list user feedback: %w", err)
	}
	return list, nil
}

func (r *feedbackRepository) filtered(ctx context.Context, f FeedbackFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Feedback{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ErrorType != "" {
		q = q.Where("error_type = ?", f.ErrorType)
	}
	return q
}

func (r *feedbackRepository) List(ctx context.Context, f FeedbackFilter, page, limit int) ([]models.Feedback, int64, error) {
	var list []models.Feedback
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}
	if err := r.filtered(ctx, f).
		Preload("User", withReviewer).
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	return list, total, nil
}

func (r *feedbackRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("feedback status counts: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *feedbackRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Feedback{})
	if res.Error != nil {
		return fmt.Errorf("delete feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
