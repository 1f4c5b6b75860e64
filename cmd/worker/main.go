package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

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
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store := database.NewDeliveryStore(db.DB, logger)
		defer store.Close()
		opts = append(opts, recommender.WithObserver(store))
	}

	forwarder, err := recommender.New(cfg.RecommenderAPIURL, cfg.Credentials(), opts...)
	if err != nil {
		logger.Fatal("Failed to configure recommender API client: %v", err)
	}

	// Initialize worker
	w, err := worker.New(cfg, logger, forwarder)
	if err != nil {
		logger.Fatal("Failed to configure worker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Start worker
	logger.Info("Starting worker on topic %s...", cfg.KafkaTopic)
	go func() {
		w.Start(ctx)
		close(done)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	w.Stop()
	<-done
}
