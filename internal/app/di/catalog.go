// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogadapters "cosmetics_store/internal/feature/catalog/adapters"
	catalogusecase "cosmetics_store/internal/feature/catalog/usecase"
	syncusecase "cosmetics_store/internal/feature/catalogsync/usecase"
	"cosmetics_store/internal/platform/cache"
	"cosmetics_store/internal/platform/config"
)

// CatalogReader is the catalog repository used by the API together with
// the hook the sync job calls to drop stale cache entries.
type CatalogReader struct {
	Repository  catalogusecase.CosmeticRepository
	Invalidator syncusecase.CacheInvalidator
}

// NewCatalogReader returns the GORM repository, wrapped in a Redis read-through
// cache when rdb is non-nil. Without Redis the invalidator is nil.
func NewCatalogReader(rdb *redis.Client, db *gorm.DB, cfg config.Config) CatalogReader {
	repo := catalogadapters.NewCosmeticRepository(db)
	if rdb == nil {
		return CatalogReader{Repository: repo}
	}
	cached := cache.NewCachingCosmeticRepository(rdb, cache.SyncAlignedTTL(cfg.SyncCronExpr, cfg.CacheTTL), repo, "cosmetics")
	return CatalogReader{Repository: cached, Invalidator: cached}
}
