package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eshelf/internal/microservices/http-api/models"
)

// UserSet names a text[] column of users holding a set of ISBNs.
type UserSet string

const (
	FavoritesSet UserSet = "favorites"
	BookmarksSet UserSet = "bookmarks"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)

	// AddToSet and RemoveFromSet report whether membership changed.
	AddToSet(ctx context.Context, userID string, set UserSet, isbn string) (bool, error)
	RemoveFromSet(ctx context.Context, userID string, set UserSet, isbn string) (bool, error)

	UpsertReadingHistory(ctx context.Context, entry *models.ReadingHistory) error
	ListReadingHistory(ctx context.Context, userID string) ([]models.ReadingHistory, error)
	DeleteReadingHistory(ctx context.Context, userID, isbn string) (bool, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// query methods return nil with the gorm error so callers never see a zero-value user
func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	return r.taken(ctx, "username", username, exceptID)
}

func (r *userRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.taken(ctx, "email", strings.ToLower(email), exceptID)
}

func (r *userRepository) taken(ctx context.Context, column, value, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var list []models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return list, total, nil
}

// AddToSet appends isbn only when it is not already a member, in one statement.
func (r *userRepository) AddToSet(ctx context.Context, userID string, set UserSet, isbn string) (bool, error) {
	col := string(set)
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND NOT (? = ANY("+col+"))", userID, isbn).
		UpdateColumn(col, gorm.Expr("array_append("+col+", ?)", isbn))
	if res.Error != nil {
		return false, fmt.Errorf("add to %s: %w", col, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) RemoveFromSet(ctx context.Context, userID string, set UserSet, isbn string) (bool, error) {
	col := string(set)
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND ? = ANY("+col+")", userID, isbn).
		UpdateColumn(col, gorm.Expr("array_remove("+col+", ?)", isbn))
	if res.Error != nil {
		return false, fmt.Errorf("remove from %s: %w", col, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpsertReadingHistory updates progress and last_read of an existing entry
// or appends a new one.
func (r *userRepository) UpsertReadingHistory(ctx context.Context, entry *models.ReadingHistory) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_isbn"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "last_read"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("upsert reading history: %w", err)
	}
	return nil
}

func (r *userRepository) ListReadingHistory(ctx context.Context, userID string) ([]models.ReadingHistory, error) {
	var list []models.ReadingHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list reading history: %w", err)
	}
	return list, nil
}

func (r *userRepository) DeleteReadingHistory(ctx context.Context, userID, isbn string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND book_isbn = ?", userID, isbn).
		Delete(&models.ReadingHistory{})
	if res.Error != nil {
		return false, fmt.Errorf("delete reading history: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
