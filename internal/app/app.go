package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/dylanS0811/product-review-platform/migrations"

	"github.com/dylanS0811/product-review-platform/internal/config"
	"github.com/dylanS0811/product-review-platform/internal/event"
	handlerhttp "github.com/dylanS0811/product-review-platform/internal/handler/http"
	"github.com/dylanS0811/product-review-platform/internal/repository"
	"github.com/dylanS0811/product-review-platform/internal/repository/postgres"
	"github.com/dylanS0811/product-review-platform/internal/repository/rediscache"
	"github.com/dylanS0811/product-review-platform/internal/service"
	"github.com/dylanS0811/product-review-platform/pkg/database"
	"github.com/dylanS0811/product-review-platform/pkg/health"
	"github.com/dylanS0811/product-review-platform/pkg/kafka"
	"github.com/dylanS0811/product-review-platform/pkg/tracing"
)

// App wires together the catalog service's dependencies and owns their
// lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	producer    *kafka.Producer
	server      *http.Server

	tracerShutdown func(context.Context) error
}

// New builds the application: database pool, cache, event producer,
// services, and the HTTP server. Dependencies already opened are closed
// again if a later step fails.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresPoolConfig(), logger)
	if err != nil {
		a.closePartial(ctx)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pool = pool
	prometheus.MustRegister(database.NewPoolStatsCollector(pool, cfg.ServiceName))

	if cfg.Postgres.MigrateOnStart {
		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			a.closePartial(ctx)
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	var productRepo repository.ProductRepository = postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	if cfg.Redis.CacheEnabled {
		client, err := database.NewRedisClient(ctx, cfg.RedisClientConfig())
		if err != nil {
			a.closePartial(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client
		productRepo = rediscache.New(productRepo, client, cfg.Redis.CacheTTL, logger)
	}

	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		a.producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.Kafka.Brokers), logger)
		publisher = event.NewPublisher(a.producer, logger)
	}

	aggregator := service.NewRatingAggregator(productRepo, publisher, logger)
	catalogSvc := service.NewCatalogService(productRepo, logger)
	reviewSvc := service.NewReviewService(reviewRepo, aggregator, publisher, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return a.redisClient.Ping(ctx).Err()
		})
	}
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}

	router := handlerhttp.NewRouter(
		handlerhttp.RouterConfig{
			ServiceName:        cfg.ServiceName,
			Environment:        cfg.Environment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:             logger,
		},
		handlerhttp.NewProductHandler(catalogSvc, logger),
		handlerhttp.NewReviewHandler(reviewSvc, logger),
		healthHandler,
	)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails, then shuts everything down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown(context.Background())
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	a.shutdown(shutdownCtx)
	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) shutdown(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close failed", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}
}

func (a *App) closePartial(ctx context.Context) {
	a.shutdown(ctx)
}
