package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/analytics"
	"github.com/nishantgupta83/mindful-living/internal/ingest"
	"github.com/nishantgupta83/mindful-living/internal/search"
	"github.com/nishantgupta83/mindful-living/internal/search/cache"
	"github.com/nishantgupta83/mindful-living/internal/server"
	storepostgres "github.com/nishantgupta83/mindful-living/internal/store/postgres"
	storeredis "github.com/nishantgupta83/mindful-living/internal/store/redis"
	"github.com/nishantgupta83/mindful-living/pkg/config"
	"github.com/nishantgupta83/mindful-living/pkg/health"
	"github.com/nishantgupta83/mindful-living/pkg/kafka"
	"github.com/nishantgupta83/mindful-living/pkg/logger"
	"github.com/nishantgupta83/mindful-living/pkg/metrics"
	"github.com/nishantgupta83/mindful-living/pkg/middleware"
	pkgpostgres "github.com/nishantgupta83/mindful-living/pkg/postgres"
	pkgredis "github.com/nishantgupta83/mindful-living/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	var mx *metrics.Metrics
	if cfg.Metrics.Enabled {
		mx = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	pgClient, err := pkgpostgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()
	slog.Info("postgres connected", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)

	// Redis only persists the builtAt timestamp; losing it means the index
	// reports Empty after a restart, which is survivable.
	var timestampStore cache.TimestampStore
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, builtAt persistence disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		timestampStore = storeredis.NewTimestampStore(redisClient, cfg.Redis.TimestampKey)
		slog.Info("timestamp store enabled", "addr", cfg.Redis.Addr, "key", cfg.Redis.TimestampKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := storepostgres.NewSource(pgClient)
	cacheOpts := []cache.Option{}
	if mx != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics(mx))
	}
	manager, err := cache.New(source, timestampStore, cfg.Cache, cacheOpts...)
	if err != nil {
		slog.Error("failed to create cache manager", "error", err)
		os.Exit(1)
	}
	manager.Restore(ctx)

	svcOpts := []search.Option{}
	if mx != nil {
		svcOpts = append(svcOpts, search.WithMetrics(mx))
	}
	svc, err := search.New(manager, svcOpts...)
	if err != nil {
		slog.Error("failed to create search service", "error", err)
		os.Exit(1)
	}

	// Warm the index in the background so the first query does not pay the
	// full build latency. A failure here is retried by the first query.
	go func() {
		if err := svc.Warm(ctx); err != nil {
			slog.Warn("index warmup failed", "error", err)
		}
	}()

	aggregator := analytics.NewAggregator()
	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
	defer analyticsProducer.Close()
	collector := analytics.NewCollector(analyticsProducer, aggregator, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.AnalyticsEvents)

	contentConsumer := ingest.New(kafka.NewConsumer(
		cfg.Kafka,
		cfg.Kafka.Topics.ContentUpdates,
		ingest.HandleContentUpdate(svc),
	))
	go func() {
		if err := contentConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("content consumer error", "error", err)
		}
	}()
	slog.Info("content consumer started", "topic", cfg.Kafka.Topics.ContentUpdates)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pgClient.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		state := manager.State()
		switch state {
		case cache.StateEmpty, cache.StateBuilding:
			return health.ComponentHealth{Status: health.StatusDegraded, Message: state.String()}
		default:
			return health.ComponentHealth{Status: health.StatusUp, Message: state.String()}
		}
	})

	h := server.New(svc, collector, aggregator, cfg.Search)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/suggest", h.Suggest)
	mux.HandleFunc("GET /api/v1/popular", h.Popular)
	mux.HandleFunc("POST /api/v1/reindex", h.Reindex)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/analytics", h.Analytics)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if mx != nil {
		chain = middleware.Metrics(mx)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
