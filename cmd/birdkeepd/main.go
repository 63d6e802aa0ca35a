// Command birdkeepd runs the birdkeep REST API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/birdkeep/birdkeep/internal/api"
	"github.com/birdkeep/birdkeep/internal/config"
	"github.com/birdkeep/birdkeep/internal/server"
	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/internal/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("birdkeep server starting")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the store and apply schema migrations
	db, err := store.New(cfg.GetString("database.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, "core", services.Migrations); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Wire repositories, services, and handlers
	birdRepo := services.NewSQLiteBirdRepository(db.DB())
	sightingRepo := services.NewSQLiteSightingRepository(db.DB())
	birds := services.NewBirdService(birdRepo, logger)
	sightings := services.NewSightingService(sightingRepo, birdRepo, logger)
	handler := api.NewHandler(birds, sightings, logger)

	addr := fmt.Sprintf("%s:%d", cfg.GetString("server.host"), cfg.GetInt("server.port"))
	srv := server.New(server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.GetDuration("server.read_timeout"),
		WriteTimeout: cfg.GetDuration("server.write_timeout"),
		IdleTimeout:  cfg.GetDuration("server.idle_timeout"),
		RateLimit:    cfg.GetFloat64("server.rate_limit"),
		RateBurst:    cfg.GetInt("server.rate_burst"),
	}, handler, logger)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("birdkeep server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("birdkeep server stopped")
}
