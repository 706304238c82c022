// Package adapters はusersフィーチャーの読み取り専用リポジトリを提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	authentity "cosmetics_store/internal/feature/auth/domain/entity"
	shopentity "cosmetics_store/internal/feature/shop/domain/entity"
	"cosmetics_store/internal/feature/users/usecase"
)

type userDirectory struct {
	db *gorm.DB
}

var _ usecase.UserDirectory = (*userDirectory)(nil)

// NewUserDirectory creates a gorm-backed UserDirectory.
func NewUserDirectory(db *gorm.DB) *userDirectory {
	return &userDirectory{db: db}
}

// publicColumns はAPIに公開する列です。パスワードハッシュは読み込みません。
var publicColumns = []string{"id", "email", "vbucks", "created_at"}

func (r *userDirectory) ListUsers(ctx context.Context, offset, limit int) ([]authentity.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&authentity.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []authentity.User
	err := r.db.WithContext(ctx).
		Select(publicColumns).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *userDirectory) FindUser(ctx context.Context, id uint) (*authentity.User, error) {
	var u authentity.User
	if err := r.db.WithContext(ctx).Select(publicColumns).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *userDirectory) ListPurchases(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error) {
	base := r.db.WithContext(ctx).Model(&shopentity.Purchase{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	var ps []shopentity.Purchase
	err := base.Session(&gorm.Session{}).
		Preload("Cosmetic").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&ps).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	return ps, total, nil
}
