package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"example.com/ecoquest/internal/config"
	"example.com/ecoquest/internal/outbox"
	httptransport "example.com/ecoquest/internal/transport/http"
)

const (
	defaultDLQBatchSize = 50
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger("ecoquest-dlqmanager", cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("dlq manager stopped with error")
	}
	logger.Info().Msg("dlq manager stopped")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	manager := outbox.NewDLQManager(pool, logger, cfg.DLQMaxRetries, cfg.DLQBaseDelay)
	group, ctx := errgroup.WithContext(ctx)

	metricsCfg := httptransport.DefaultServerConfig(cfg.MetricsAddress)
	metricsSrv := httptransport.NewServer(metricsCfg, promhttp.Handler())
	group.Go(func() error {
		return httptransport.Serve(ctx, metricsSrv, metricsCfg.ShutdownTimeout, logger)
	})

	group.Go(func() error {
		ticker := time.NewTicker(cfg.DLQPollInterval)
		defer ticker.Stop()
		logger.Info().
			Dur("interval", cfg.DLQPollInterval).
			Int("max_retries", cfg.DLQMaxRetries).
			Msg("dlq manager started")

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				processed, err := manager.RunOnce(ctx, defaultDLQBatchSize)
				if err != nil {
					logger.Error().Err(err).Msg("dlq pass failed")
				} else if processed > 0 {
					logger.Info().Int("processed", processed).Msg("dlq pass complete")
				}
			}
		}
	})

	return group.Wait()
}
