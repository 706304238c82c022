// Package adapters はshopフィーチャーのGORMによる台帳実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalog "cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/shop/domain/entity"
	"cosmetics_store/internal/feature/shop/usecase"
)

// balanceRow は users テーブルのうち残高操作に必要な列だけを扱います。
type balanceRow struct {
	ID        uint
	VBucks    int `gorm:"column:vbucks"`
	UpdatedAt time.Time
}

func (balanceRow) TableName() string { return "users" }

// ledgerRepository はLedgerインターフェースのGORM実装です。
type ledgerRepository struct {
	db *gorm.DB
}

var _ usecase.Ledger = (*ledgerRepository)(nil)

// NewLedgerRepository creates a gorm-backed Ledger.
func NewLedgerRepository(db *gorm.DB) *ledgerRepository {
	return &ledgerRepository{db: db}
}

// Atomic は fn を1つのトランザクション内で実行します。fn がエラーを返すとロールバックします。
func (r *ledgerRepository) Atomic(ctx context.Context, fn func(tx usecase.LedgerTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{db: tx})
	})
}

// ListPurchases はユーザーの購入履歴を新しい順に返します。
func (r *ledgerRepository) ListPurchases(ctx context.Context, userID uint) ([]entity.Purchase, error) {
	var ps []entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Cosmetic").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return ps, nil
}

// ListEntries はユーザーの台帳エントリを新しい順に返します。
func (r *ledgerRepository) ListEntries(ctx context.Context, userID uint) ([]entity.LedgerEntry, error) {
	var es []entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return es, nil
}

// ledgerTx binds every operation to one *gorm.DB transaction.
// Never use the outer connection here: SQLite in tests has a single connection.
type ledgerTx struct {
	db *gorm.DB
}

var _ usecase.LedgerTx = (*ledgerTx)(nil)

// forUpdate は SELECT ... FOR UPDATE を付与します（SQLiteドライバーでは無視されます）。
func (t *ledgerTx) forUpdate() *gorm.DB {
	return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (t *ledgerTx) LockUserBalance(userID uint) (int, error) {
	var row balanceRow
	if err := t.forUpdate().Select("id", "vbucks").First(&row, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, usecase.ErrUserNotFound
		}
		return 0, fmt.Errorf("lock user: %w", err)
	}
	return row.VBucks, nil
}

func (t *ledgerTx) FindCosmetic(id string) (*catalog.Cosmetic, error) {
	var c catalog.Cosmetic
	if err := t.db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCosmeticNotFound
		}
		return nil, fmt.Errorf("find cosmetic: %w", err)
	}
	return &c, nil
}

func (t *ledgerTx) HasActivePurchase(userID uint, cosmeticID string) (bool, error) {
	var n int64
	err := t.db.Model(&entity.Purchase{}).
		Where("user_id = ? AND cosmetic_id = ? AND returned = ?", userID, cosmeticID, false).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check ownership: %w", err)
	}
	return n > 0, nil
}

// DebitBalance は残高が足りる場合のみ減算します（WHERE vbucks >= amount）。
func (t *ledgerTx) DebitBalance(userID uint, amount int) (int, error) {
	res := t.db.Model(&balanceRow{}).
		Where("id = ? AND vbucks >= ?", userID, amount).
		Update("vbucks", gorm.Expr("vbucks - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("debit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, usecase.ErrInsufficientFunds
	}
	return t.balance(userID)
}

func (t *ledgerTx) CreditBalance(userID uint, amount int) (int, error) {
	res := t.db.Model(&balanceRow{}).
		Where("id = ?", userID).
		Update("vbucks", gorm.Expr("vbucks + ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("credit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, usecase.ErrUserNotFound
	}
	return t.balance(userID)
}

func (t *ledgerTx) balance(userID uint) (int, error) {
	var row balanceRow
	if err := t.db.Select("id", "vbucks").First(&row, userID).Error; err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return row.VBucks, nil
}

func (t *ledgerTx) CreatePurchase(p *entity.Purchase) error {
	// Cosmetic は関連の upsert を避けるため保存対象から外す
	return t.db.Omit(clause.Associations).Create(p).Error
}

func (t *ledgerTx) LockPurchase(id uint) (*entity.Purchase, error) {
	var p entity.Purchase
	if err := t.forUpdate().First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("lock purchase: %w", err)
	}
	return &p, nil
}

// MarkReturned は未返品の購入のみ更新します。
func (t *ledgerTx) MarkReturned(id uint, at time.Time) error {
	res := t.db.Model(&entity.Purchase{}).
		Where("id = ? AND returned = ?", id, false).
		Updates(map[string]any{"returned": true, "returned_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrAlreadyReturned
	}
	return nil
}

func (t *ledgerTx) AppendEntry(e *entity.LedgerEntry) error {
	return t.db.Create(e).Error
}
