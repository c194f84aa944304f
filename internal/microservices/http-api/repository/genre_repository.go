package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/models"
)

type GenreRepository interface {
	ListActive(ctx context.Context) ([]models.Genre, error)
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
	Save(ctx context.Context, genre *models.Genre) error
	// AdjustBookCounts adds delta to book_count of every named genre, floored at zero.
	AdjustBookCounts(ctx context.Context, names []string, delta int) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) ListActive(ctx context.Context) ([]models.Genre, error) {
	list := []models.Genre{}
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return list, nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) Save(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Save(genre).Error; err != nil {
		return fmt.Errorf("update genre: %w", err)
	}
	return nil
}

func (r *genreRepository) AdjustBookCounts(ctx context.Context, names []string, delta int) error {
	if len(names) == 0 || delta == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Genre{}).
		Where("name IN ?", names).
		UpdateColumn("book_count", gorm.Expr("GREATEST(book_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("adjust genre counts: %w", err)
	}
	return nil
}
