package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "cosmetics_store/internal/feature/auth/domain/entity"
	shopentity "cosmetics_store/internal/feature/shop/domain/entity"
)

type mockUserDirectory struct {
	ListUsersFunc     func(ctx context.Context, offset, limit int) ([]authentity.User, int64, error)
	FindUserFunc      func(ctx context.Context, id uint) (*authentity.User, error)
	ListPurchasesFunc func(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error)
}

func (m *mockUserDirectory) ListUsers(ctx context.Context, offset, limit int) ([]authentity.User, int64, error) {
	return m.ListUsersFunc(ctx, offset, limit)
}

func (m *mockUserDirectory) FindUser(ctx context.Context, id uint) (*authentity.User, error) {
	return m.FindUserFunc(ctx, id)
}

func (m *mockUserDirectory) ListPurchases(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error) {
	return m.ListPurchasesFunc(ctx, userID, offset, limit)
}

func TestUsersUsecase_List(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		wantOffset  int
		wantLimit   int
		wantMeta    Meta
	}{
		{name: "defaults", wantOffset: 0, wantLimit: 20, wantMeta: Meta{Page: 1, Limit: 20, Total: 45, Pages: 3}},
		{name: "page 3 of 10", page: 3, limit: 10, wantOffset: 20, wantLimit: 10, wantMeta: Meta{Page: 3, Limit: 10, Total: 45, Pages: 5}},
		{name: "limit clamped", page: -1, limit: 1000, wantOffset: 0, wantLimit: 100, wantMeta: Meta{Page: 1, Limit: 100, Total: 45, Pages: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &mockUserDirectory{
				ListUsersFunc: func(ctx context.Context, offset, limit int) ([]authentity.User, int64, error) {
					assert.Equal(t, tt.wantOffset, offset)
					assert.Equal(t, tt.wantLimit, limit)
					return nil, 45, nil
				},
			}

			page, err := NewUsersUsecase(dir).List(context.Background(), tt.page, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMeta, page.Meta)
			assert.NotNil(t, page.Users)
		})
	}
}

func TestUsersUsecase_Get(t *testing.T) {
	t.Run("purchases default to 12 per page", func(t *testing.T) {
		dir := &mockUserDirectory{
			FindUserFunc: func(ctx context.Context, id uint) (*authentity.User, error) {
				return &authentity.User{ID: id, Email: "u@example.com"}, nil
			},
			ListPurchasesFunc: func(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error) {
				assert.Equal(t, uint(4), userID)
				assert.Equal(t, 12, offset)
				assert.Equal(t, 12, limit)
				return []shopentity.Purchase{{ID: 1}}, 13, nil
			},
		}

		d, err := NewUsersUsecase(dir).Get(context.Background(), 4, 2, 0)

		require.NoError(t, err)
		assert.Equal(t, uint(4), d.User.ID)
		assert.Len(t, d.Purchases, 1)
		assert.Equal(t, Meta{Page: 2, Limit: 12, Total: 13, Pages: 2}, d.Meta)
	})

	t.Run("unknown user", func(t *testing.T) {
		dir := &mockUserDirectory{
			FindUserFunc: func(ctx context.Context, id uint) (*authentity.User, error) { return nil, ErrUserNotFound },
		}

		_, err := NewUsersUsecase(dir).Get(context.Background(), 4, 1, 12)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("purchase query failure", func(t *testing.T) {
		dir := &mockUserDirectory{
			FindUserFunc: func(ctx context.Context, id uint) (*authentity.User, error) { return &authentity.User{ID: id}, nil },
			ListPurchasesFunc: func(ctx context.Context, userID uint, offset, limit int) ([]shopentity.Purchase, int64, error) {
				return nil, 0, errors.New("boom")
			},
		}

		_, err := NewUsersUsecase(dir).Get(context.Background(), 4, 1, 12)

		assert.EqualError(t, err, "boom")
	})
}
