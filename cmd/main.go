package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/competition-engine/config"
	"github.com/Dosada05/competition-engine/db"
	"github.com/Dosada05/competition-engine/handlers"
	"github.com/Dosada05/competition-engine/realtime"
	"github.com/Dosada05/competition-engine/repositories"
	"github.com/Dosada05/competition-engine/routes"
	"github.com/Dosada05/competition-engine/services"
	"github.com/Dosada05/competition-engine/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")

	var exporter storage.StandingsExporter
	r2Config := storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Config.Enabled() {
		store, err := storage.NewR2Store(ctx, r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		exporter = storage.NewStandingsExporter(store)
		logger.Info("standings export enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("standings export disabled: R2 is not configured")
	}

	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)

	runRepo := repositories.NewPostgresRunRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	ratingRepo := repositories.NewPostgresRatingRepository(dbConn)

	authService := services.NewAuthService(cfg.OrganizerPasswordHash, cfg.JWTSecretKey)
	playerService := services.NewPlayerService(playerRepo, logger)
	runService := services.NewRunService(runRepo, playerRepo, wsHub, exporter, logger)
	duelService := services.NewDuelService(ratingRepo, wsHub, logger, cfg.EloKFactor, cfg.EloDefaultRating)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		cfg.CORSAllowedOrigins,
		handlers.NewAuthHandler(authService),
		handlers.NewPlayerHandler(playerService),
		handlers.NewRunHandler(runService),
		handlers.NewDuelHandler(duelService),
		handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
