package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recommender/internal/api"
	"recommender/internal/config"
	"recommender/internal/database"
	"recommender/internal/logger"
	"recommender/internal/recommender"
	"recommender/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.ForEnv(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	opts := []recommender.Option{
		recommender.WithLogger(logger),
		recommender.WithDefaultTimeout(cfg.SendTimeout),
	}
	deps := api.Dependencies{}

	// Delivery log is optional
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store := database.NewDeliveryStore(db.DB, logger)
		defer store.Close()
		opts = append(opts, recommender.WithObserver(store))
		deps.Deliveries = store
	}

	forwarder, err := recommender.New(cfg.RecommenderAPIURL, cfg.Credentials(), opts...)
	if err != nil {
		logger.Fatal("Failed to configure recommender API client: %v", err)
	}
	deps.Forwarder = forwarder

	if cfg.Async() {
		publisher, err := worker.NewPublisher(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to configure event publisher: %v", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	// Initialize API server
	server := api.New(cfg, logger, deps)

	go func() {
		logger.Info("Starting API server on port %s (%s mode)", cfg.APIPort, cfg.ForwardMode)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
