// Package usecase は外部カタログAPIとローカルDBの同期処理を提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cosmetics_store/internal/feature/catalog/domain/entity"
)

// DefaultSyncLimit は1回のカタログ同期で取り込む最大件数です。
const DefaultSyncLimit = 500

// CatalogSource は外部カタログAPIです。レスポンスの形が安定しないため生の map を返します。
type CatalogSource interface {
	Cosmetics(ctx context.Context) ([]map[string]any, error)
	ShopEntries(ctx context.Context) ([]map[string]any, error)
	NewItems(ctx context.Context) ([]map[string]any, error)
}

// CosmeticStore はローカルのコスメティックテーブルへの書き込み操作です。
type CosmeticStore interface {
	Count(ctx context.Context) (int64, error)
	// UpsertCatalog は基本情報を書き込み、isNew / isOnSale を false に戻します。新規作成時は true を返します。
	UpsertCatalog(ctx context.Context, c entity.Cosmetic) (created bool, err error)
	ClearOnSale(ctx context.Context) error
	// MarkOnSale は既存行を販売中にします。行が存在しなければ false を返します。
	MarkOnSale(ctx context.Context, id string, price int, at time.Time) (found bool, err error)
	ClearNew(ctx context.Context) error
	// UpsertNew は既存行なら isNew と lastSync のみ更新し、なければ c を作成します。
	UpsertNew(ctx context.Context, c entity.Cosmetic) (created bool, err error)
	// Put は c をそのまま保存します（シード用）。
	Put(ctx context.Context, cs []entity.Cosmetic) error
}

// Limiter paces calls to the external API.
type Limiter interface {
	Wait(ctx context.Context) error
}

// CacheInvalidator drops cached catalog reads after a sync.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogResult は SyncCatalog の結果です。
type CatalogResult struct {
	Imported int
	Updated  int
	Seeded   bool
}

// Summary は SyncAll の集計結果です。
type Summary struct {
	CatalogImported int
	CatalogUpdated  int
	MarkedOnSale    int
	MarkedAsNew     int
	Seeded          bool
	Duration        time.Duration
}

type syncUsecase struct {
	source      CatalogSource
	store       CosmeticStore
	limiter     Limiter
	invalidator CacheInvalidator
	limit       int

	now func() time.Time
	mu  sync.Mutex
}

// NewSyncUsecase は同期ユースケースを生成します。
// limiter と invalidator は nil でも構いません。limit が0以下なら DefaultSyncLimit を使います。
func NewSyncUsecase(source CatalogSource, store CosmeticStore, limiter Limiter, invalidator CacheInvalidator, limit int) *syncUsecase {
	if limit <= 0 {
		limit = DefaultSyncLimit
	}
	return &syncUsecase{
		source:      source,
		store:       store,
		limiter:     limiter,
		invalidator: invalidator,
		limit:       limit,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (u *syncUsecase) wait(ctx context.Context) error {
	if u.limiter == nil {
		return nil
	}
	return u.limiter.Wait(ctx)
}

// SyncCatalog は /cosmetics/br を取り込みます。
// 取得に失敗しテーブルが空の場合はフォールバック商品を投入し、ErrCatalogUnavailable を返します。
func (u *syncUsecase) SyncCatalog(ctx context.Context) (CatalogResult, error) {
	var res CatalogResult

	items, err := u.fetch(ctx, u.source.Cosmetics)
	if err != nil {
		slog.Error("catalog fetch failed", "error", err)
		seeded, seedErr := u.seedIfEmpty(ctx)
		res.Seeded = seeded
		return res, errors.Join(fmt.Errorf("%w: %w", ErrCatalogUnavailable, err), seedErr)
	}

	now := u.now()
	for _, raw := range items {
		if res.Imported+res.Updated >= u.limit {
			break
		}
		c, ok := ParseCosmetic(raw, now)
		if !ok {
			continue
		}
		created, err := u.store.UpsertCatalog(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.Error("failed to upsert cosmetic", "error", err, "cosmetic_id", c.ID)
			continue
		}
		if created {
			res.Imported++
		} else {
			res.Updated++
		}
	}
	slog.Info("catalog synced", "imported", res.Imported, "updated", res.Updated)
	return res, nil
}

func (u *syncUsecase) seedIfEmpty(ctx context.Context) (bool, error) {
	n, err := u.store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count cosmetics: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	slog.Warn("catalog source unavailable and no local data, seeding fallback cosmetics")
	if err := u.store.Put(ctx, fallbackCosmetics(u.now())); err != nil {
		return false, fmt.Errorf("seed fallback cosmetics: %w", err)
	}
	return true, nil
}

// SyncShop は /shop/br の出品を isOnSale に反映し、マークした件数を返します。
// フラグのリセットは取得成功後に行うため、API障害時に既存のフラグは消えません。
func (u *syncUsecase) SyncShop(ctx context.Context) (int, error) {
	entries, err := u.fetch(ctx, u.source.ShopEntries)
	if err != nil {
		slog.Warn("shop fetch failed", "error", err)
		return 0, err
	}
	if err := u.store.ClearOnSale(ctx); err != nil {
		return 0, fmt.Errorf("reset on-sale flags: %w", err)
	}

	now := u.now()
	seen := make(map[string]struct{})
	marked := 0
	for _, entry := range entries {
		price := EntryPrice(entry)
		for _, id := range EntryItemIDs(entry) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			found, err := u.store.MarkOnSale(ctx, id, price, now)
			if err != nil {
				if ctx.Err() != nil {
					return marked, ctx.Err()
				}
				slog.Error("failed to mark cosmetic on sale", "error", err, "cosmetic_id", id)
				continue
			}
			if found {
				marked++
			}
		}
	}
	slog.Info("shop synced", "marked_on_sale", marked)
	return marked, nil
}

// SyncNew applies /cosmetics/new and returns the number of flagged items.
func (u *syncUsecase) SyncNew(ctx context.Context) (int, error) {
	items, err := u.fetch(ctx, u.source.NewItems)
	if err != nil {
		slog.Warn("new items fetch failed", "error", err)
		return 0, err
	}
	if err := u.store.ClearNew(ctx); err != nil {
		return 0, fmt.Errorf("reset new flags: %w", err)
	}

	now := u.now()
	count := 0
	for _, raw := range items {
		c, ok := ParseNewItem(raw, now)
		if !ok {
			continue
		}
		if _, err := u.store.UpsertNew(ctx, c); err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			slog.Error("failed to flag new cosmetic", "error", err, "cosmetic_id", c.ID)
			continue
		}
		count++
	}
	slog.Info("new items synced", "marked_as_new", count)
	return count, nil
}

// SyncAll はカタログ、ショップ、新着の順に同期します。
// 途中で失敗しても全ステージを実行し、失敗したステージのエラーを結合して返します。
func (u *syncUsecase) SyncAll(ctx context.Context) (Summary, error) {
	if !u.mu.TryLock() {
		return Summary{}, ErrSyncInProgress
	}
	defer u.mu.Unlock()

	start := time.Now()
	slog.Info("catalog sync started")

	var errs []error
	catalog, err := u.SyncCatalog(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("catalog: %w", err))
	}
	onSale, err := u.SyncShop(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("shop: %w", err))
	}
	asNew, err := u.SyncNew(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("new: %w", err))
	}

	if u.invalidator != nil {
		if err := u.invalidator.Invalidate(ctx); err != nil {
			slog.Warn("failed to invalidate catalog cache", "error", err)
		}
	}

	sum := Summary{
		CatalogImported: catalog.Imported,
		CatalogUpdated:  catalog.Updated,
		MarkedOnSale:    onSale,
		MarkedAsNew:     asNew,
		Seeded:          catalog.Seeded,
		Duration:        time.Since(start),
	}
	slog.Info("catalog sync finished",
		"imported", sum.CatalogImported,
		"updated", sum.CatalogUpdated,
		"marked_on_sale", sum.MarkedOnSale,
		"marked_as_new", sum.MarkedAsNew,
		"seeded", sum.Seeded,
		"duration", sum.Duration,
		"failed_stages", len(errs),
	)
	return sum, errors.Join(errs...)
}

// Run は SyncAll をスケジューラのジョブとして実行します。
func (u *syncUsecase) Run(ctx context.Context) error {
	_, err := u.SyncAll(ctx)
	return err
}

func (u *syncUsecase) fetch(ctx context.Context, call func(context.Context) ([]map[string]any, error)) ([]map[string]any, error) {
	if err := u.wait(ctx); err != nil {
		return nil, err
	}
	return call(ctx)
}
