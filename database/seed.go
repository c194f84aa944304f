package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/middleware/auth"
)

// SeedAccount is a user created by the seeder when its username is free.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Role     string
}

// DefaultAccounts are the admin and test users of a fresh install.
func DefaultAccounts(adminPassword, testPassword string) []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Email: "admin@eshelf.com", Password: adminPassword, Role: models.RoleAdmin},
		{Username: "testuser", Email: "test@eshelf.com", Password: testPassword, Role: models.RoleUser},
	}
}

// SeedData is the catalog loaded from the JSON seed files.
type SeedData struct {
	Genres []string
	Books  []models.Book
}

// LoadSeedData reads a JSON array of genre names and a JSON array of books.
func LoadSeedData(genresPath, booksPath string) (*SeedData, error) {
	data := &SeedData{}
	if err := readJSONFile(genresPath, &data.Genres); err != nil {
		return nil, err
	}
	if err := readJSONFile(booksPath, &data.Books); err != nil {
		return nil, err
	}

	for i := range data.Books {
		b := &data.Books[i]
		b.ISBN = strings.TrimSpace(b.ISBN)
		if b.ISBN == "" {
			return nil, fmt.Errorf("book %d in %s has no isbn", i, booksPath)
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
		b.IsActive = true
	}
	return data, nil
}

func readJSONFile(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// SeedSummary counts what a seed run wrote.
type SeedSummary struct {
	Genres   int
	Books    int
	Accounts int
}

// bookUpsert refreshes catalog fields of existing books. Counters and the
// active flag belong to the running system and are left alone.
var bookUpsert = clause.OnConflict{
	Columns: []clause.Column{{Name: "isbn"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"title", "description", "authors", "translators", "publisher", "genres",
		"year", "language", "pages", "extension", "size", "pdf_url", "cover_url",
		"search_text", "search_compact", "updated_at",
	}),
}

// Seed inserts genres and books, refreshes genre book counts and creates
// missing accounts in one transaction. Existing genres are kept and
// existing books get their catalog fields refreshed.
func Seed(ctx context.Context, db *gorm.DB, data *SeedData, accounts []SeedAccount, logger *slog.Logger) (SeedSummary, error) {
	var summary SeedSummary

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range data.Genres {
			g := models.Genre{Name: name, IsActive: true}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&g)
			if res.Error != nil {
				return fmt.Errorf("seed genre %q: %w", name, res.Error)
			}
			summary.Genres += int(res.RowsAffected)
		}
		logger.Info("genres_seeded", "count", summary.Genres)

		if len(data.Books) > 0 {
			res := tx.Clauses(bookUpsert).CreateInBatches(data.Books, 100)
			if res.Error != nil {
				return fmt.Errorf("seed books: %w", res.Error)
			}
			summary.Books = int(res.RowsAffected)
		}
		logger.Info("books_seeded", "count", summary.Books)

		err := tx.Exec(`UPDATE genres SET book_count = (
			SELECT COUNT(*) FROM books WHERE books.is_active AND genres.name = ANY(books.genres)
		)`).Error
		if err != nil {
			return fmt.Errorf("refresh genre counts: %w", err)
		}

		for _, a := range accounts {
			created, err := seedAccount(tx, a)
			if err != nil {
				return err
			}
			if created {
				summary.Accounts++
				logger.Info("account_created", "username", a.Username, "role", a.Role)
			} else {
				logger.Info("account_exists", "username", a.Username)
			}
		}
		return nil
	})
	return summary, err
}

func seedAccount(tx *gorm.DB, a SeedAccount) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", a.Username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check account %s: %w", a.Username, err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(a.Password)
	if err != nil {
		return false, fmt.Errorf("hash password for %s: %w", a.Username, err)
	}
	user := models.User{
		Username: a.Username,
		Email:    strings.ToLower(a.Email),
		Password: hash,
		Role:     a.Role,
		Avatar:   models.DefaultAvatar,
		IsActive: true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return false, fmt.Errorf("create account %s: %w", a.Username, err)
	}
	return true, nil
}
