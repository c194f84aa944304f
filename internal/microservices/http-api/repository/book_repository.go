package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eshelf/internal/microservices/http-api/models"
)

// Sort keys accepted by book listings.
const (
	SortNewest    = "newest"
	SortTitle     = "title"
	SortYear      = "year"
	SortPopular   = "popular"
	SortDownloads = "downloads"
	SortFavorites = "favorites"
	SortSearch    = "search"
)

var bookOrders = map[string]string{
	SortNewest:    "created_at DESC",
	SortTitle:     "title ASC",
	SortYear:      "year DESC NULLS LAST",
	SortPopular:   "view_count DESC",
	SortDownloads: "download_count DESC",
	SortFavorites: "favorite_count DESC",
	SortSearch:    "view_count DESC, created_at DESC",
}

// BookFilter narrows a book listing. Keyword and Compact are expected to be
// folded already.
type BookFilter struct {
	Keyword  string
	Compact  string
	Genres   []string
	YearFrom *int
	YearTo   *int
	Language string
	Sort     string
}

type BookRepository interface {
	List(ctx context.Context, f BookFilter, page, limit int) ([]models.Book, int64, error)
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
	FindActive(ctx context.Context, isbn string) (*models.Book, error)
	FindActiveByISBNs(ctx context.Context, isbns []string) ([]models.Book, error)
	FindRefs(ctx context.Context, isbns []string) (map[string]models.Book, error)
	Related(ctx context.Context, book *models.Book, limit int) ([]models.BookSummary, error)
	IncrementView(ctx context.Context, isbn string) (*models.Book, error)
	IncrementDownload(ctx context.Context, isbn string) (int64, error)
	AdjustFavoriteCount(ctx context.Context, isbn string, delta int) error
	Create(ctx context.Context, book *models.Book) error
	Save(ctx context.Context, book *models.Book) error
	Deactivate(ctx context.Context, isbn string) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) applyFilter(q *gorm.DB, f BookFilter) *gorm.DB {
	q = q.Where("is_active = ?", true)
	if f.Keyword != "" {
		q = q.Where("search_text LIKE ?", "%"+escapeLike(f.Keyword)+"%")
	}
	if f.Compact != "" {
		q = q.Where("search_compact LIKE ?", "%"+escapeLike(f.Compact)+"%")
	}
	switch len(f.Genres) {
	case 0:
	case 1:
		q = q.Where("? = ANY(genres)", f.Genres[0])
	default:
		q = q.Where("genres && ?", pq.Array(f.Genres))
	}
	if f.YearFrom != nil {
		q = q.Where("year >= ?", *f.YearFrom)
	}
	if f.YearTo != nil {
		q = q.Where("year <= ?", *f.YearTo)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	return q
}

func bookOrder(sort string) string {
	order, ok := bookOrders[sort]
	if !ok {
		order = bookOrders[SortNewest]
	}
	// isbn keeps pages stable when the sort key ties
	return order + ", isbn ASC"
}

func (r *bookRepository) List(ctx context.Context, f BookFilter, page, limit int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Book{}), f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	if err := r.applyFilter(r.db.WithContext(ctx), f).
		Order(bookOrder(f.Sort)).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return list, total, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, "isbn = ?", isbn).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) FindActive(ctx context.Context, isbn string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, "isbn = ? AND is_active = ?", isbn, true).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) FindActiveByISBNs(ctx context.Context, isbns []string) ([]models.Book, error) {
	list := []models.Book{}
	if len(isbns) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).
		Where("isbn IN ? AND is_active = ?", isbns, true).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return list, nil
}

// FindRefs loads the display fields of the given books keyed by ISBN,
// regardless of their active flag.
func (r *bookRepository) FindRefs(ctx context.Context, isbns []string) (map[string]models.Book, error) {
	refs := make(map[string]models.Book, len(isbns))
	if len(isbns) == 0 {
		return refs, nil
	}
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Select("isbn", "title", "cover_url", "authors").
		Where("isbn IN ?", isbns).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find book refs: %w", err)
	}
	for _, b := range list {
		refs[b.ISBN] = b
	}
	return refs, nil
}

func (r *bookRepository) Related(ctx context.Context, book *models.Book, limit int) ([]models.BookSummary, error) {
	list := []models.BookSummary{}
	if len(book.Genres) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Select("isbn", "title", "authors", "cover_url", "genres").
		Where("is_active = ? AND isbn <> ? AND genres && ?", true, book.ISBN, pq.Array([]string(book.Genres))).
		Order("view_count DESC, isbn ASC").
		Limit(limit).
		Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("related books: %w", err)
	}
	return list, nil
}

// IncrementView bumps view_count once and returns the updated row.
func (r *bookRepository) IncrementView(ctx context.Context, isbn string) (*models.Book, error) {
	var b models.Book
	res := r.db.WithContext(ctx).Model(&b).
		Clauses(clause.Returning{}).
		Where("isbn = ? AND is_active = ?", isbn, true).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *bookRepository) IncrementDownload(ctx context.Context, isbn string) (int64, error) {
	var b models.Book
	res := r.db.WithContext(ctx).Model(&b).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "download_count"}}}).
		Where("isbn = ? AND is_active = ?", isbn, true).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment downloads: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return b.DownloadCount, nil
}

// AdjustFavoriteCount adds delta to favorite_count without going below zero.
func (r *bookRepository) AdjustFavoriteCount(ctx context.Context, isbn string, delta int) error {
	err := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("isbn = ?", isbn).
		UpdateColumn("favorite_count", gorm.Expr("GREATEST(favorite_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("adjust favorites: %w", err)
	}
	return nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *bookRepository) Save(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func (r *bookRepository) Deactivate(ctx context.Context, isbn string) error {
	res := r.db.WithContext(ctx).Model(&models.Book{}).
		Where("isbn = ?", isbn).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
