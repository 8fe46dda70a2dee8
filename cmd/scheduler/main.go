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

	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/logging"
	"example.com/habitkick/internal/persistence/postgres"
	"example.com/habitkick/internal/scheduler"
	httptransport "example.com/habitkick/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.Must("scheduler", cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("scheduler exited", zap.Error(err))
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

	repo := postgres.NewRepository(pool)
	competitions := domain.NewCompetitionService(repo, repo, repo)
	finalize := scheduler.FinalizeCompetitions(competitions, cfg.FinalizeBatchSize, logger)

	jobs := scheduler.New(logger, cfg.JobTimeout)
	if err := jobs.Add(scheduler.JobFinalizeCompetitions, cfg.FinalizeSchedule, finalize); err != nil {
		return fmt.Errorf("schedule %q: %w", cfg.FinalizeSchedule, err)
	}

	// Catch up on anything that ended while the scheduler was down.
	if err := jobs.RunNow(scheduler.JobFinalizeCompetitions, finalize); err != nil {
		logger.Warn("startup finalization failed", zap.Error(err))
	}
	jobs.Start()
	logger.Info("scheduler started", zap.String("finalize_schedule", cfg.FinalizeSchedule))

	err = httptransport.Run(ctx, httptransport.MetricsServer(cfg.MetricsAddress), 10*time.Second, logger)

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout)
	defer cancel()
	if stopErr := jobs.Stop(stopCtx); stopErr != nil {
		logger.Warn("jobs still running at shutdown", zap.Error(stopErr))
	}
	return err
}
