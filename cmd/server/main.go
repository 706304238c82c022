package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"cosmetics_store/internal/app/di"
	"cosmetics_store/internal/app/router"
	authadapters "cosmetics_store/internal/feature/auth/adapters"
	authentity "cosmetics_store/internal/feature/auth/domain/entity"
	authhandler "cosmetics_store/internal/feature/auth/transport/handler"
	authusecase "cosmetics_store/internal/feature/auth/usecase"
	catalogentity "cosmetics_store/internal/feature/catalog/domain/entity"
	cataloghandler "cosmetics_store/internal/feature/catalog/transport/handler"
	catalogusecase "cosmetics_store/internal/feature/catalog/usecase"
	synchandler "cosmetics_store/internal/feature/catalogsync/transport/handler"
	shopadapters "cosmetics_store/internal/feature/shop/adapters"
	shopentity "cosmetics_store/internal/feature/shop/domain/entity"
	shophandler "cosmetics_store/internal/feature/shop/transport/handler"
	shopusecase "cosmetics_store/internal/feature/shop/usecase"
	usersadapters "cosmetics_store/internal/feature/users/adapters"
	usershandler "cosmetics_store/internal/feature/users/transport/handler"
	usersusecase "cosmetics_store/internal/feature/users/usecase"
	"cosmetics_store/internal/platform/config"
	infradb "cosmetics_store/internal/platform/db"
	"cosmetics_store/internal/platform/http/handler"
	jwtmw "cosmetics_store/internal/platform/jwt"
	infraredis "cosmetics_store/internal/platform/redis"
	"cosmetics_store/internal/platform/scheduler"
)

const (
	shutdownTimeout = 5 * time.Second
	syncJobTimeout  = 10 * time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server terminated", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close DB", "error", err)
		}
	}()
	if cfg.RunMigrations {
		if err := infradb.Migrate(db, &authentity.User{}, &catalogentity.Cosmetic{}, &shopentity.Purchase{}, &shopentity.LedgerEntry{}); err != nil {
			return err
		}
		slog.Info("DB migration completed")
	}

	// Redis
	var rdb *redisv9.Client
	switch tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword); {
	case errors.Is(err, infraredis.ErrNotConfigured):
		slog.Info("REDIS_HOST is not set. Running without cache.")
	case err != nil:
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	default:
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Repository
	catalog := di.NewCatalogReader(rdb, db, cfg)
	userRepo := authadapters.NewUserRepository(db)
	ledger := shopadapters.NewLedgerRepository(db)
	directory := usersadapters.NewUserDirectory(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration))
	catalogUC := catalogusecase.NewCatalogUsecase(catalog.Repository)
	shopUC := shopusecase.NewShopUsecase(ledger)
	usersUC := usersusecase.NewUsersUsecase(directory)
	syncSvc := di.NewSyncUsecase(db, cfg, catalog.Invalidator)

	// Handler / ルータ生成
	r := router.NewRouter(router.Handlers{
		Health:  handler.NewHealthHandler(sqlDB),
		Auth:    authhandler.NewAuthHandler(authUC),
		Catalog: cataloghandler.NewCatalogHandler(catalogUC),
		Shop:    shophandler.NewShopHandler(shopUC),
		Users:   usershandler.NewUsersHandler(usersUC),
		Sync:    synchandler.NewSyncHandler(syncSvc),
	}, router.Options{JWTSecret: cfg.JWTSecret, CORSOrigins: cfg.CORSOrigins})

	// 定期同期
	sched := scheduler.New(syncJobTimeout)
	if err := sched.Add(cfg.SyncCronExpr, "catalog-sync", syncSvc.Run); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if cfg.SyncOnStart {
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(gctx, syncJobTimeout)
			defer cancel()
			// 起動時同期の失敗でサーバーは止めない
			if err := syncSvc.Run(jobCtx); err != nil {
				slog.Warn("startup sync finished with errors", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
