package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/bouquet-backend/internal/orders"
	"github.com/angelmondragon/bouquet-backend/internal/visualization"
	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/db"
	"github.com/angelmondragon/bouquet-backend/pkg/instance"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
	"github.com/angelmondragon/bouquet-backend/pkg/migrate"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox/idempotency"
	"github.com/angelmondragon/bouquet-backend/pkg/pubsub"
	"github.com/angelmondragon/bouquet-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "worker shutting down gracefully")
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	bootCtx := context.Background()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(bootCtx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(bootCtx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	pubsubClient, err := pubsub.NewClient(bootCtx, cfg.GCP, cfg.PubSub, true, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, pubsubClient.Close()) }()

	registry := prometheus.NewRegistry()
	vizMetrics := metrics.NewVisualizationMetrics(registry)

	var model visualization.Model
	if cfg.Visualization.Enabled {
		httpModel, err := visualization.NewHTTPModel(cfg.Visualization)
		if err != nil {
			return err
		}
		model = httpModel
	}
	gateway, err := visualization.NewGateway(visualization.GatewayParams{
		Model:   model,
		Config:  cfg.Visualization,
		Metrics: vizMetrics,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	guard, err := idempotency.NewGuard(redisClient, visualization.ConsumerName, cfg.Eventing.IdempotencyTTL)
	if err != nil {
		return err
	}

	consumer, err := visualization.NewConsumer(visualization.ConsumerParams{
		Orders:       orders.NewRepository(dbClient.DB()),
		Renderer:     gateway,
		Guard:        guard,
		Subscription: pubsubClient.VisualizationSubscription(),
		Metrics:      vizMetrics,
		Logger:       logg,
	})
	if err != nil {
		return err
	}

	service, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		PubSub:   pubsubClient,
		Consumer: consumer,
		Gatherer: registry,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"serviceKind":  "worker",
		"instance":     instance.ID("worker"),
		"subscription": cfg.PubSub.VisualizationSubscription,
	})
	logg.Info(ctx, "starting worker")

	if runErr := service.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
