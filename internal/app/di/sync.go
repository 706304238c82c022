package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	syncadapters "cosmetics_store/internal/feature/catalogsync/adapters"
	syncusecase "cosmetics_store/internal/feature/catalogsync/usecase"
	"cosmetics_store/internal/platform/config"
	"cosmetics_store/internal/platform/externalapi/fortniteapi"
	infrahttp "cosmetics_store/internal/platform/http"
	"cosmetics_store/internal/shared/ratelimiter"
)

const (
	userAgent = "cosmetics-store-sync/1.0"
	// fortnite-api.com は公開APIのため、1秒あたりのリクエスト数を控えめにします。
	syncRequestsPerSecond = 3
)

// SyncService は同期ジョブの実行口です。手動実行とスケジューラの両方から使います。
type SyncService interface {
	SyncAll(ctx context.Context) (syncusecase.Summary, error)
	Run(ctx context.Context) error
}

// NewCatalogSource creates the fortnite-api.com client with a retrying resty transport.
func NewCatalogSource(cfg config.Config) *fortniteapi.Client {
	fcfg := fortniteapi.ConfigFrom(cfg)
	rc := infrahttp.NewRestyClient(fcfg.BaseURL, fcfg.Timeout, userAgent)
	return fortniteapi.NewClient(fcfg, rc)
}

// NewSyncUsecase wires the catalog sync job. invalidator may be nil when caching is off.
func NewSyncUsecase(db *gorm.DB, cfg config.Config, invalidator syncusecase.CacheInvalidator) SyncService {
	return syncusecase.NewSyncUsecase(
		NewCatalogSource(cfg),
		syncadapters.NewCosmeticStore(db),
		ratelimiter.NewRateLimiter(syncRequestsPerSecond, time.Second),
		invalidator,
		cfg.FortniteSyncLimit,
	)
}
