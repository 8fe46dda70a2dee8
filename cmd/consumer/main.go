package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/consumer"
	"example.com/habitkick/internal/logging"
	"example.com/habitkick/internal/notify"
	"example.com/habitkick/internal/persistence/postgres"
	httptransport "example.com/habitkick/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.Must("consumer", cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("consumer exited", zap.Error(err))
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

	mailer := notify.NewResendClient(cfg.ResendAPIURL, cfg.ResendAPIKey, cfg.EmailFrom, cfg.HTTPTimeout)
	if !mailer.Enabled() {
		logger.Warn("RESEND_API_KEY not set; notification emails are skipped")
	}
	handler := consumer.Chain{
		consumer.NewEventLogHandler(pool),
		consumer.NewNotificationHandler(mailer, postgres.NewRepository(pool), logger.Named("notify")),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httptransport.Run(ctx, httptransport.MetricsServer(cfg.MetricsAddress), 10*time.Second, logger)
	})

	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ConsumerGroupID,
			Topic:           topic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			RetentionTime:   24 * time.Hour,
			ReadLagInterval: -1,
		})
		proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(logger.With(zap.String("topic", topic))))

		topic := topic
		g.Go(func() error {
			defer reader.Close()
			logger.Info("consumer started", zap.String("topic", topic), zap.String("group", cfg.ConsumerGroupID))
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("topic %s: %w", topic, err)
			}
			return nil
		})
	}

	return g.Wait()
}
