// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/catalog/usecase"
)

// CachingCosmeticRepository decorates a CosmeticRepository with a Redis read-through cache.
// A nil client disables caching and every call goes to the inner repository.
type CachingCosmeticRepository struct {
	inner     usecase.CosmeticRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

// listEntry is the cached form of one List call.
type listEntry struct {
	Items []entity.Cosmetic `json:"items"`
	Total int64             `json:"total"`
}

// NewCachingCosmeticRepository decorates inner with Redis caching.
// ttl is evaluated on every write so it can track the next sync run; a nil or non-positive
// result falls back to 5 minutes. An empty namespace means "cosmetics".
func NewCachingCosmeticRepository(rdb *redis.Client, ttl func() time.Duration, inner usecase.CosmeticRepository, namespace string) *CachingCosmeticRepository {
	if namespace == "" {
		namespace = "cosmetics"
	}
	return &CachingCosmeticRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

var _ usecase.CosmeticRepository = (*CachingCosmeticRepository)(nil)

func (c *CachingCosmeticRepository) currentTTL() time.Duration {
	if c.ttl == nil {
		return 5 * time.Minute
	}
	if d := c.ttl(); d > 0 {
		return d
	}
	return 5 * time.Minute
}

// List checks the cache first and falls back to the inner repository.
func (c *CachingCosmeticRepository) List(ctx context.Context, f usecase.Filter) ([]entity.Cosmetic, int64, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, f)
	}

	key := c.listKey(f)
	var cached listEntry
	if c.get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	items, total, err := c.inner.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, listEntry{Items: items, Total: total})
	return items, total, nil
}

// FindByID checks the cache first and falls back to the inner repository.
// Misses on unknown ids are not cached.
func (c *CachingCosmeticRepository) FindByID(ctx context.Context, id string) (*entity.Cosmetic, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.itemKey(id)
	var cached entity.Cosmetic
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// Invalidate drops every cached catalog entry. It is called after a sync run.
func (c *CachingCosmeticRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// get loads key into dest. Corrupted entries are deleted and reported as a miss.
func (c *CachingCosmeticRepository) get(ctx context.Context, key string, dest any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		if err != nil && err != redis.Nil {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingCosmeticRepository) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.currentTTL()).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

func (c *CachingCosmeticRepository) listKey(f usecase.Filter) string {
	return fmt.Sprintf("%s:list:%d:%d:%s:%s:%s:%s:%s",
		c.namespace,
		f.Page,
		f.Limit,
		keyPart(strings.ToLower(f.Search)),
		keyPart(f.Type),
		keyPart(f.Rarity),
		triState(f.IsNew),
		triState(f.IsOnSale),
	)
}

func (c *CachingCosmeticRepository) itemKey(id string) string {
	return fmt.Sprintf("%s:item:%s", c.namespace, keyPart(id))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCosmeticRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

func triState(b *bool) string {
	if b == nil {
		return "any"
	}
	return strconv.FormatBool(*b)
}

// keyPart はキーの1要素をエスケープします。
// 区切り文字 ":" と SCAN のパターン文字を含まず、異なる入力が同じキーになりません。
func keyPart(s string) string {
	return url.QueryEscape(s)
}
