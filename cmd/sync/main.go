package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"cosmetics_store/internal/app/di"
	catalogentity "cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/platform/config"
	infradb "cosmetics_store/internal/platform/db"
	infraredis "cosmetics_store/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}
	slog.Info("sync ok")
}

func run() error {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	if cfg.RunMigrations {
		if err := infradb.Migrate(db, &catalogentity.Cosmetic{}); err != nil {
			return err
		}
	}

	// キャッシュが有効なら同期後に破棄する
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword); err == nil {
		rdb = tmp
		defer func() { _ = rdb.Close() }()
	}
	catalog := di.NewCatalogReader(rdb, db, cfg)

	sum, err := di.NewSyncUsecase(db, cfg, catalog.Invalidator).SyncAll(ctx)
	slog.Info("sync summary",
		"imported", sum.CatalogImported,
		"updated", sum.CatalogUpdated,
		"marked_on_sale", sum.MarkedOnSale,
		"marked_as_new", sum.MarkedAsNew,
		"seeded", sum.Seeded,
		"duration", sum.Duration,
	)
	return err
}
