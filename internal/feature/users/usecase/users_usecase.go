// Package usecase implements the public user directory.
package usecase

import (
	"context"

	authentity "cosmetics_store/internal/feature/auth/domain/entity"
	shopentity "cosmetics_store/internal/feature/shop/domain/entity"
	"cosmetics_store/internal/shared/pagination"
)

const (
	DefaultPageSize         = 20
	DefaultPurchasePageSize = 12
	MaxPageSize             = 100
)

// UserDirectory は一覧表示用のユーザー・購入情報の読み取りを抽象化します。
type UserDirectory interface {
	ListUsers(ctx context.Context, offset, limit int) ([]authentity.User, int64, error)
	// FindUser returns ErrUserNotFound when the user does not exist.
	FindUser(ctx context.Context, id uint) (*authentity.User, error)
	ListPurchases(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error)
}

// Meta はページング情報です。
type Meta struct {
	Page, Limit, Pages int
	Total              int64
}

// UserPage is one page of users.
type UserPage struct {
	Users []authentity.User
	Meta  Meta
}

// UserDetail is a user with one page of their purchases.
type UserDetail struct {
	User      authentity.User
	Purchases []shopentity.Purchase
	Meta      Meta
}

type usersUsecase struct {
	dir UserDirectory
}

// NewUsersUsecase creates the users usecase.
func NewUsersUsecase(dir UserDirectory) *usersUsecase {
	return &usersUsecase{dir: dir}
}

// List はユーザーを作成日時の新しい順に返します。
func (u *usersUsecase) List(ctx context.Context, page, limit int) (*UserPage, error) {
	page, limit = pagination.Normalize(page, limit, DefaultPageSize, MaxPageSize)
	users, total, err := u.dir.ListUsers(ctx, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []authentity.User{}
	}
	return &UserPage{
		Users: users,
		Meta:  Meta{Page: page, Limit: limit, Total: total, Pages: pagination.Pages(total, limit)},
	}, nil
}

// Get はユーザーと購入履歴の1ページを返します。
func (u *usersUsecase) Get(ctx context.Context, id uint, page, limit int) (*UserDetail, error) {
	user, err := u.dir.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	page, limit = pagination.Normalize(page, limit, DefaultPurchasePageSize, MaxPageSize)
	purchases, total, err := u.dir.ListPurchases(ctx, id, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []shopentity.Purchase{}
	}
	return &UserDetail{
		User:      *user,
		Purchases: purchases,
		Meta:      Meta{Page: page, Limit: limit, Total: total, Pages: pagination.Pages(total, limit)},
	}, nil
}
