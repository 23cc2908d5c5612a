package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/stocktrackhq/stocktrack-backend/api/routes"
	"github.com/stocktrackhq/stocktrack-backend/internal/history"
	"github.com/stocktrackhq/stocktrack-backend/internal/inventory"
	"github.com/stocktrackhq/stocktrack-backend/internal/reports"
	"github.com/stocktrackhq/stocktrack-backend/pkg/config"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
	"github.com/stocktrackhq/stocktrack-backend/pkg/metrics"
	"github.com/stocktrackhq/stocktrack-backend/pkg/migrate"
	"github.com/stocktrackhq/stocktrack-backend/pkg/redis"
)

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Info(context.Background(), "redis not configured, dashboard cache disabled")
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	historyService, err := history.NewService(inventoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), redisClient, cfg.Dashboard.SummaryCacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			inventoryService,
			historyService,
			reportsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
