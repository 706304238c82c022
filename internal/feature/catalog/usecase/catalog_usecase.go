package usecase

import (
	"context"
	"strings"

	"cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/shared/pagination"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Search   string
	Type     string
	Rarity   string
	IsNew    *bool
	IsOnSale *bool
	Page     int
	Limit    int
}

// Page is one page of catalog results.
type Page struct {
	Items []entity.Cosmetic
	Total int64
	Page  int
	Limit int
	Pages int
}

// CosmeticRepository reads cosmetics from storage.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CosmeticRepository interface {
	// List returns the cosmetics matching f for f.Page/f.Limit, plus the total match count.
	List(ctx context.Context, f Filter) ([]entity.Cosmetic, int64, error)
	// FindByID returns ErrCosmeticNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*entity.Cosmetic, error)
}

type catalogUsecase struct {
	repo CosmeticRepository
}

// NewCatalogUsecase creates the catalog read usecase.
func NewCatalogUsecase(repo CosmeticRepository) *catalogUsecase {
	return &catalogUsecase{repo: repo}
}

// NormalizeFilter trims search terms, lowercases type/rarity and clamps pagination.
func NormalizeFilter(f Filter) Filter {
	f.Search = strings.TrimSpace(f.Search)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.Rarity = strings.ToLower(strings.TrimSpace(f.Rarity))
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit, DefaultPageSize, MaxPageSize)
	return f
}

// List returns a page of cosmetics matching the filter.
func (u *catalogUsecase) List(ctx context.Context, f Filter) (*Page, error) {
	f = NormalizeFilter(f)
	items, total, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.Cosmetic{}
	}
	return &Page{
		Items: items,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
		Pages: pagination.Pages(total, f.Limit),
	}, nil
}

// Get returns a single cosmetic.
func (u *catalogUsecase) Get(ctx context.Context, id string) (*entity.Cosmetic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrCosmeticNotFound
	}
	return u.repo.FindByID(ctx, id)
}
