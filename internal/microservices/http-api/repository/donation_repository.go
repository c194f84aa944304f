package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/models"
)

type DonationFilter struct {
	Status string
	Method string
}

// MethodTotal is the completed amount and count for one payment method.
type MethodTotal struct {
	Method      string
	TotalAmount int64
	Count       int64
}

type DonationRepository interface {
	Create(ctx context.Context, d *models.Donation) error
	FindByID(ctx context.Context, id string) (*models.Donation, error)
	FindByTransactionID(ctx context.Context, txID string) (*models.Donation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Donation, error)
	CompletedTotalByUser(ctx context.Context, userID string) (int64, error)
	List(ctx context.Context, f DonationFilter, page, limit int) ([]models.Donation, int64, error)
	CompletedTotalsByMethod(ctx context.Context) ([]MethodTotal, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, d *models.Donation) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

func (r *donationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *donationRepository) FindByTransactionID(ctx context.Context, txID string) (*models.Donation, error) {
	var d models.Donation
	if err := r.db.WithContext(ctx).First(&d, "transaction_id = ?", txID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *donationRepository) ListByUser(ctx context.Context, userID string) ([]models.Donation, error) {
	list := []models.Donation{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list user donations: %w", err)
	}
	return list, nil
}

func (r *donationRepository) CompletedTotalByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND status = ?", userID, models.DonationCompleted).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum user donations: %w", err)
	}
	return total, nil
}

func (r *donationRepository) filtered(ctx context.Context, f DonationFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Donation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	return q
}

func (r *donationRepository) List(ctx context.Context, f DonationFilter, page, limit int) ([]models.Donation, int64, error) {
	var list []models.Donation
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}
	if err := r.filtered(ctx, f).
		Preload("User", withReviewer).
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	return list, total, nil
}

func (r *donationRepository) CompletedTotalsByMethod(ctx context.Context) ([]MethodTotal, error) {
	var rows []MethodTotal
	if err := r.db.WithContext(ctx).Model(&models.Donation{}).
		Select("method, COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS count").
		Where("status = ?", models.DonationCompleted).
		Group("method").
		Order("method asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("donation stats: %w", err)
	}
	return rows, nil
}

func (r *donationRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
