package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/habitkick/internal/api"
	"example.com/habitkick/internal/auth"
	"example.com/habitkick/internal/cache"
	"example.com/habitkick/internal/coach"
	"example.com/habitkick/internal/config"
	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/exercises"
	"example.com/habitkick/internal/logging"
	"example.com/habitkick/internal/middleware"
	"example.com/habitkick/internal/outbox"
	"example.com/habitkick/internal/persistence/memory"
	"example.com/habitkick/internal/persistence/postgres"
	"example.com/habitkick/internal/recipes"
	"example.com/habitkick/internal/scheduler"
	httptransport "example.com/habitkick/internal/transport/http"
)

// store is satisfied by both the Postgres repository and the in-memory store.
type store interface {
	domain.AccountRepository
	domain.ProfileRepository
	domain.WeightRepository
	domain.WaterRepository
	domain.GoalRepository
	domain.CompetitionRepository
	domain.ChallengeRepository
	domain.RecipeRepository
	domain.WorkoutRepository
}

func main() {
	cfg := config.Load()
	logger := logging.Must("api", cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var repo store
	switch cfg.Storage {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart and no events are published")
		repo = memory.NewStore()
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		repo = postgres.NewRepository(pool)

		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL, cfg.HTTPTimeout)
		dispatcher := outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize,
			outbox.WithLogger(logger.Named("outbox")), outbox.WithClaimTimeout(cfg.OutboxClaimTimeout))
		g.Go(func() error {
			dispatcher.Start(ctx)
			return nil
		})
	default:
		return fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	var recipeCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddress != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddress, "habitkick:")
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, recipe cache stays in process", zap.Error(err))
		} else {
			recipeCache = redisCache
		}
	}

	recipeSearch := recipes.NewCachedSearcher(
		recipes.NewClient(cfg.RecipeAPIURL, cfg.RecipeAppID, cfg.RecipeAppKey, cfg.HTTPTimeout),
		recipeCache, cfg.RecipeCacheTTL, logger.Named("recipes"))
	exerciseSearch := exercises.NewFallbackSearcher(
		exercises.NewClient(cfg.ExerciseAPIURL, cfg.ExerciseAPIKey, cfg.HTTPTimeout),
		exercises.NewCatalog(), logger.Named("exercises"))
	chat := coach.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.HTTPTimeout)

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	handler := api.NewHandler(api.Services{
		Accounts:     domain.NewAccountService(repo, repo, auth.NewIssuer(authCfg, cfg.JWTTokenTTL)),
		Profiles:     domain.NewProfileService(repo),
		Weights:      domain.NewWeightService(repo, repo),
		Water:        domain.NewWaterService(repo),
		Goals:        domain.NewGoalService(repo, repo, repo, repo, repo),
		Competitions: domain.NewCompetitionService(repo, repo, repo),
		Challenges:   domain.NewChallengeService(repo),
		Recipes:      domain.NewRecipeService(repo, recipeSearch),
		Workouts:     domain.NewWorkoutService(repo, exerciseSearch),
		Coach:        domain.NewCoachService(chat, repo, repo),
	}, logger.Named("http"))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, logger.Named("ratelimit"))

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	handler.RegisterRoutes(router)
	router.Use(middleware.RequestLogger(logger.Named("access")), limiter.Handler)

	authMiddleware := auth.NewMiddleware(authCfg)
	cors := middleware.NewCORS(cfg.AllowedOrigins)
	serverCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	server := httptransport.NewServer(serverCfg, cors.Handler(authMiddleware.Wrap(router)))

	jobs := scheduler.New(logger.Named("scheduler"), cfg.JobTimeout)
	if err := jobs.Add(scheduler.JobPruneRateLimiters, "@every 1m",
		scheduler.PruneRateLimiters(limiter, cfg.LimiterIdleTTL, logger)); err != nil {
		return err
	}
	jobs.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout)
		defer cancel()
		_ = jobs.Stop(stopCtx)
	}()

	g.Go(func() error {
		return httptransport.Run(ctx, server, serverCfg.ShutdownTimeout, logger)
	})

	logger.Info("habitkick api started", zap.String("address", cfg.HTTPAddress), zap.String("storage", cfg.Storage))
	return g.Wait()
}
