package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aayushbajaj/study-telemetry/internal/api"
	"github.com/aayushbajaj/study-telemetry/internal/config"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level, filepath.Join(cfg.LogDir(), "daemon.log"))
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Sync()

	log.Info("Starting studytel daemon", "db", cfg.DBPath, "addr", cfg.Server.Addr)

	thresholds, err := cfg.Heatmap.Thresholds()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(log, store, thresholds, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	if err := srv.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}

	log.Info("Daemon stopped")
	return nil
}
