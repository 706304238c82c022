// Package adapters provides the GORM repository for catalog reads.
package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/catalog/usecase"
	"cosmetics_store/internal/shared/pagination"
)

type cosmeticRepository struct {
	db *gorm.DB
}

var _ usecase.CosmeticRepository = (*cosmeticRepository)(nil)

// NewCosmeticRepository creates a catalog repository on the given connection.
func NewCosmeticRepository(db *gorm.DB) *cosmeticRepository {
	return &cosmeticRepository{db: db}
}

// likeEscaper makes % and _ match literally. "!" is used as the escape character
// because a backslash literal is read differently by MySQL and PostgreSQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List applies the filter, counts all matches and then fetches the requested page
// ordered by newest first.
func (r *cosmeticRepository) List(ctx context.Context, f usecase.Filter) ([]entity.Cosmetic, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Cosmetic{})

	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}
	if f.Type != "" {
		q = q.Where("(type_key = ? OR LOWER(type) = ?)", f.Type, f.Type)
	}
	if f.Rarity != "" {
		q = q.Where("LOWER(rarity) = ?", f.Rarity)
	}
	if f.IsNew != nil {
		q = q.Where("is_new = ?", *f.IsNew)
	}
	if f.IsOnSale != nil {
		q = q.Where("is_on_sale = ?", *f.IsOnSale)
	}

	// Session makes q safe to reuse for both the count and the page query.
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entity.Cosmetic{}, 0, nil
	}

	var out []entity.Cosmetic
	err := q.Order("added_at DESC").Order("name ASC").
		Offset(pagination.Offset(f.Page, f.Limit)).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindByID returns usecase.ErrCosmeticNotFound when no row matches.
func (r *cosmeticRepository) FindByID(ctx context.Context, id string) (*entity.Cosmetic, error) {
	var c entity.Cosmetic
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCosmeticNotFound
		}
		return nil, err
	}
	return &c, nil
}
