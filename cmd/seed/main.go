package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/stocktrackhq/stocktrack-backend/internal/inventory"
	"github.com/stocktrackhq/stocktrack-backend/pkg/config"
	"github.com/stocktrackhq/stocktrack-backend/pkg/db"
	"github.com/stocktrackhq/stocktrack-backend/pkg/logger"
	"github.com/stocktrackhq/stocktrack-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	requireResource(ctx, logg, "inventory service", err)

	seeder, err := NewSeeder(cfg.Seed, inventoryService, dbClient, nil, logg)
	requireResource(ctx, logg, "seeder", err)

	created, err := seeder.Run(ctx)
	if err != nil {
		logg.Error(ctx, "seed run failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "items_created", created), "seed complete")
	fmt.Println("seeded items:", created)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
