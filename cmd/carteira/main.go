package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"carteira/assets"
	"carteira/internal/backend"
	"carteira/internal/config"
	apphttp "carteira/internal/http"
	applog "carteira/internal/log"
	"carteira/internal/store"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		return err
	}

	res, err := backend.Open(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		BoltDBPath:   cfg.BoltDBPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to open storage backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		return err
	}
	defer func() {
		if cerr := res.Cleanup(); cerr != nil {
			logger.Error("Storage cleanup failed", applog.FieldError, cerr)
		}
	}()

	seed, err := assets.DefaultDataset()
	if err != nil {
		logger.Error("Failed to load bundled dataset", applog.FieldError, err)
		return err
	}

	st := store.New(res.Store, store.Seed{
		Account:      seed.Account,
		Transactions: seed.Transactions,
	})

	srv := apphttp.NewServer(":"+cfg.Port, st, apphttp.Options{
		UploadDir:   cfg.UploadDir,
		ChartMonths: cfg.ChartMonths,
		TrendPoints: cfg.TrendPoints,
		CacheTTL:    cfg.ChartCacheTTL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting carteira server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
