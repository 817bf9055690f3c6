package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/M-AKIMOTOO/uptimeplot/internal/api"
	"github.com/M-AKIMOTOO/uptimeplot/internal/cache"
	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/config"
	"github.com/M-AKIMOTOO/uptimeplot/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	store := catalog.NewStore()
	if cfg.StationFile != "" && cfg.SourceFile != "" {
		snap, err := catalog.LoadSnapshot(cfg.StationFile, cfg.SourceFile)
		if err != nil {
			logger.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
		store.Set(snap)
		metrics.SetCatalogCounts(len(snap.Stations), len(snap.Sources))
		logger.Info("loaded catalog",
			"stations", len(snap.Stations),
			"sources", len(snap.Sources),
			"station_file", cfg.StationFile,
			"source_file", cfg.SourceFile,
		)
	} else {
		// No files configured: start with an empty snapshot so readiness
		// passes and clients supply records inline or via PUT /api/v1/catalog.
		store.Set(&catalog.Snapshot{Origin: "none", LoadedAt: time.Now().UTC()})
		logger.Info("no catalog files configured, starting empty")
	}

	results := cache.New(cfg.CacheMaxEntries)
	srv := api.NewServer(cfg.HTTPAddr, logger, cfg, store, results)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background goroutine to update the catalog age gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := store.AgeSeconds(); age >= 0 {
					metrics.SetCatalogAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "auth_enabled", cfg.AuthEnabled, "workers", cfg.Workers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
