package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/logging"
	"example.com/habitkick/internal/outbox"
	httptransport "example.com/habitkick/internal/transport/http"
)

const defaultDLQBatchSize = 50

func main() {
	cfg := config.Load()
	logger := logging.Must("dlqmanager", cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("dlq manager exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	manager := outbox.NewDLQManager(pool, logger, cfg.DLQMaxRetries, cfg.DLQBaseDelay)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httptransport.Run(ctx, httptransport.MetricsServer(cfg.MetricsAddress), 10*time.Second, logger)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.DLQPollInterval)
		defer ticker.Stop()

		logger.Info("dlq manager started",
			zap.Duration("interval", cfg.DLQPollInterval), zap.Int("max_retries", cfg.DLQMaxRetries))
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				processed, err := manager.RunOnce(ctx, defaultDLQBatchSize)
				if err != nil {
					logger.Error("dlq iteration failed", zap.Error(err))
				} else if processed > 0 {
					logger.Info("dlq entries processed", zap.Int("count", processed))
				}
			}
		}
	})

	return g.Wait()
}
