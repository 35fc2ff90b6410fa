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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/bouquet-backend/api/controllers"
	"github.com/angelmondragon/bouquet-backend/api/routes"
	"github.com/angelmondragon/bouquet-backend/internal/catalog"
	"github.com/angelmondragon/bouquet-backend/internal/composer"
	"github.com/angelmondragon/bouquet-backend/internal/orders"
	"github.com/angelmondragon/bouquet-backend/internal/visualization"
	"github.com/angelmondragon/bouquet-backend/pkg/config"
	"github.com/angelmondragon/bouquet-backend/pkg/db"
	"github.com/angelmondragon/bouquet-backend/pkg/instance"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
	"github.com/angelmondragon/bouquet-backend/pkg/metrics"
	"github.com/angelmondragon/bouquet-backend/pkg/migrate"
	"github.com/angelmondragon/bouquet-backend/pkg/outbox"
	"github.com/angelmondragon/bouquet-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), redisClient, cfg.Redis.CatalogTTL, logg)
	if err != nil {
		return err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	composerSvc, err := composer.NewService(composer.ServiceParams{
		Catalog: catalogSvc,
		Orders:  ordersRepo,
		Tx:      dbClient,
		Outbox:  outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Config:  cfg.Orders,
		Metrics: metrics.NewOrderMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	ordersSvc, err := orders.NewService(ordersRepo)
	if err != nil {
		return err
	}

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
		Metrics: metrics.NewVisualizationMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID("api"),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			Catalog:       catalogSvc,
			Composer:      composerSvc,
			Orders:        ordersSvc,
			Visualization: gateway,
			Idempotency:   redisClient,
			Ready: map[string]controllers.Pinger{
				"db":    dbClient,
				"redis": redisClient,
			},
			Gatherer: registry,
			HTTP:     metrics.NewHTTPMetrics(registry),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
