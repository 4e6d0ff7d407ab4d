package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"pageQualityGO/internal/api"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/repository"
	"pageQualityGO/internal/scorer"
)

func main() {
	logger := setupLogger()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	// Create config
	cfg, err := config.New()
	if err != nil {
		logger.Error("Failed to create config", "error", err)
		os.Exit(1)
	}

	pageScorer, err := newScorer(cfg.Scorer)
	if err != nil {
		logger.Error("Failed to create scorer", "error", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize MongoDB connection
	mongoRepo, err := repository.NewMongoRepository(ctx, cfg.MongoDB)
	if err != nil {
		logger.Error("Failed to create MongoDB repository", "error", err)
		os.Exit(1)
	}
	defer mongoRepo.Close(context.Background())

	// Initialize and start the API server
	server := api.NewServer(cfg, mongoRepo, pageScorer, logger)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			shutdown <- syscall.SIGTERM
		}
	}()

	logger.Info("Server started", "port", cfg.Server.Port, "language", pageScorer.Language())

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited properly")
}

func newScorer(cfg config.ScorerConfig) (*scorer.Scorer, error) {
	opts := []scorer.Option{scorer.WithLanguage(cfg.Language)}
	if cfg.RequirementsFile != "" {
		overrides, err := scorer.LoadRequirements(cfg.RequirementsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, scorer.WithRequirements(overrides))
	}
	return scorer.New(opts...), nil
}

func setupLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
