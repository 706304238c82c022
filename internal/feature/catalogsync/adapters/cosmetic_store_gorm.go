// Package adapters はカタログ同期の書き込み先となるGORMストアを提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/catalogsync/usecase"
)

type cosmeticStore struct {
	db *gorm.DB
}

// cosmeticStoreがCosmeticStoreを実装していることをコンパイル時に検証します。
var _ usecase.CosmeticStore = (*cosmeticStore)(nil)

// NewCosmeticStore は新しいcosmeticStoreを生成します。
func NewCosmeticStore(db *gorm.DB) *cosmeticStore {
	return &cosmeticStore{db: db}
}

// exists は行の有無を返します。
// MySQL は値が変わらない UPDATE の RowsAffected を0と報告するため、更新件数では判定しません。
func exists(tx *gorm.DB, id string) (bool, error) {
	var n int64
	if err := tx.Model(&entity.Cosmetic{}).Where("id = ?", id).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *cosmeticStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&entity.Cosmetic{}).Count(&n).Error
	return n, err
}

// UpsertCatalog は存在確認と書き込みを1トランザクションで行います。
// 更新は map で渡し、false のフラグもゼロ値として確実に書き込みます。
func (s *cosmeticStore) UpsertCatalog(ctx context.Context, c entity.Cosmetic) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, c.ID)
		if err != nil {
			return err
		}
		if !found {
			c.IsNew, c.IsOnSale = false, false
			created = true
			return tx.Create(&c).Error
		}
		return tx.Model(&entity.Cosmetic{}).Where("id = ?", c.ID).Updates(map[string]any{
			"name":        c.Name,
			"description": c.Description,
			"type":        c.Type,
			"type_key":    c.TypeKey,
			"rarity":      c.Rarity,
			"image":       c.Image,
			"price":       c.Price,
			"added_at":    c.AddedAt,
			"is_new":      false,
			"is_on_sale":  false,
			"last_sync":   c.LastSync,
		}).Error
	})
	return created, err
}

func (s *cosmeticStore) ClearOnSale(ctx context.Context) error {
	return s.db.WithContext(ctx).Model(&entity.Cosmetic{}).
		Where("is_on_sale = ?", true).
		Update("is_on_sale", false).Error
}

func (s *cosmeticStore) MarkOnSale(ctx context.Context, id string, price int, at time.Time) (bool, error) {
	db := s.db.WithContext(ctx)
	found, err := exists(db, id)
	if err != nil || !found {
		return false, err
	}
	err = db.Model(&entity.Cosmetic{}).Where("id = ?", id).Updates(map[string]any{
		"is_on_sale": true,
		"price":      price,
		"last_sync":  at,
	}).Error
	return err == nil, err
}

func (s *cosmeticStore) ClearNew(ctx context.Context) error {
	return s.db.WithContext(ctx).Model(&entity.Cosmetic{}).
		Where("is_new = ?", true).
		Update("is_new", false).Error
}

// UpsertNew は既存行の基本情報を変更しません。
func (s *cosmeticStore) UpsertNew(ctx context.Context, c entity.Cosmetic) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, c.ID)
		if err != nil {
			return err
		}
		if found {
			return tx.Model(&entity.Cosmetic{}).Where("id = ?", c.ID).Updates(map[string]any{
				"is_new":    true,
				"last_sync": c.LastSync,
			}).Error
		}
		c.IsNew = true
		created = true
		return tx.Create(&c).Error
	})
	return created, err
}

// Put はシードデータを一括で書き込みます。既存IDは上書きします。
func (s *cosmeticStore) Put(ctx context.Context, cs []entity.Cosmetic) error {
	if len(cs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&cs).Error
}
