package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"finvision/internal/finance"
)

func main() {
	migrateCmd := flag.Bool("migrate", false, "Run database migrations and exit")
	seedDemoCmd := flag.Bool("seed-demo", false, "Seed a demo user with sample transactions and budgets (idempotent)")
	flag.Parse()

	cfg := loadConfig()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *migrateCmd, *seedDemoCmd); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger, migrateOnly, seedOnly bool) error {
	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	st := newStore(db, cfg.DBDriver)
	defer st.Close()

	version, err := runMigrations(cfg)
	if err != nil {
		return err
	}
	logger.Info("Migrations applied", "driver", cfg.DBDriver, "version", version)
	if migrateOnly {
		return nil
	}

	if seedOnly {
		_, err := seedDemoData(ctx, st, time.Now(), logger)
		return err
	}

	var cache *transactionCache
	if cfg.RedisURL != "" {
		cache, err = newTransactionCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Continuing without Redis cache", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	formatter, err := finance.NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newServer(cfg, st, cache, formatter, logger).routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "cache", cache != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
