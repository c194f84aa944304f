package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"eshelf/database"
	"eshelf/internal/config"
)

func main() {
	genresFile := flag.String("genres", "data/genres.json", "JSON array of genre names")
	booksFile := flag.String("books", "data/book-details.json", "JSON array of books")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := cfg.NewLogger(os.Stdout)

	// the seeder always needs the schema
	cfg.DBAutoMigrate = true
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	data, err := database.LoadSeedData(*genresFile, *booksFile)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	logger.Info("seed_data_loaded", "genres", len(data.Genres), "books", len(data.Books))

	accounts := database.DefaultAccounts(
		envOr("SEED_ADMIN_PASSWORD", "Admin@123"),
		envOr("SEED_TEST_PASSWORD", "Test@123"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := database.Seed(ctx, db, data, accounts, logger)
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	logger.Info("database_seeded",
		"genres", summary.Genres,
		"books", summary.Books,
		"accounts", summary.Accounts,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
