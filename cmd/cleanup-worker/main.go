package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medinex/telehealth-backend/internal/config"
	"github.com/medinex/telehealth-backend/internal/db"
	"github.com/medinex/telehealth-backend/internal/presence"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "cleanup_worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	logger.Info().
		Str("env", cfg.Env).
		Dur("interval", cfg.WorkerInterval).
		Dur("retention", cfg.ConnectionRetention).
		Msg("cleanup-worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	directory := presence.NewPgDirectory(pgPool, cfg.StoreTimeout)

	// Run once at startup
	runOnce(rootCtx, directory, cfg.ConnectionRetention, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("shutdown signal received, stopping cleanup worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, directory, cfg.ConnectionRetention, logger)
		}
	}
}

func runOnce(ctx context.Context, directory *presence.PgDirectory, retention time.Duration, logger zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	cutoff := time.Now().Add(-retention)

	purged, err := directory.PurgeDisconnectedBefore(runCtx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("cleanup run error")
		return
	}

	logger.Info().
		Int64("purged", purged).
		Dur("took", time.Since(start)).
		Msg("cleanup run complete")
}
