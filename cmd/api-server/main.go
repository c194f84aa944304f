package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/database"
	"eshelf/internal/cache"
	"eshelf/internal/config"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/microservices/http-api/router"
	"eshelf/internal/microservices/http-api/service"
	"eshelf/internal/microservices/ml"
	"eshelf/internal/middleware/auth"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	// Redis is optional, the services run uncached without it
	var store service.Cache = service.NoCache
	if redisCache, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.CacheExpiry(), logger); err != nil {
		logger.Warn("cache_disabled", "error", err)
	} else {
		store = redisCache
		defer redisCache.Close()
	}

	// Repositories and services
	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	genres := repository.NewGenreRepository(db)
	reviews := repository.NewReviewRepository(db)

	authSvc := service.NewAuthService(users, auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry), cfg.ResetTokenTTL)

	models := ml.NewRegistry(cfg.MLModelDir, logger)
	if _, err := models.Reload(); err != nil {
		logger.Warn("ml_model_not_loaded", "error", err)
	}

	deps := router.Deps{
		Authn:            authSvc,
		Auth:             authSvc,
		Users:            service.NewUserService(users, books),
		Books:            service.NewBookService(books, reviews, genres, store),
		Genres:           service.NewGenreService(genres, store),
		Reviews:          service.NewReviewService(reviews, books),
		Donations:        service.NewDonationService(repository.NewDonationRepository(db)),
		Feedback:         service.NewFeedbackService(repository.NewFeedbackRepository(db)),
		Models:           models,
		ExposeResetToken: !cfg.IsProduction(),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	limiter.StartCleanup(ctx, time.Minute)

	var metrics *middleware.Metrics
	if cfg.PrometheusEnabled {
		metrics = middleware.NewMetrics("api")
	}

	engine, err := router.New(router.Options{
		Routes:      cfg.APIRoutes,
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Limiter:     limiter,
		Metrics:     metrics,
	}, deps)
	if err != nil {
		logger.Error("router_setup_failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_api_server", "addr", srv.Addr, "env", cfg.GoEnv, "routes", cfg.APIRoutes)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// SIGHUP reloads the model, SIGINT and SIGTERM shut down
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if _, err := models.Reload(); err != nil {
					logger.Error("ml_model_reload_failed", "error", err)
				}
				continue
			}
			logger.Info("received_shutdown_signal", "signal", sig.String())
			shutdown(srv, logger)
			return
		case err := <-errChan:
			logger.Error("server_error", "error", err.Error())
			os.Exit(1)
		}
	}
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown_failed", "error", err)
		return
	}
	logger.Info("server_stopped_gracefully")
}
