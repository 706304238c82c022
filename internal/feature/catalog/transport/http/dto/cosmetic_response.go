// Package dto maps catalog entities onto the wire types in internal/api.
package dto

import (
	"cosmetics_store/internal/api"
	"cosmetics_store/internal/feature/catalog/domain/entity"
)

// FromEntity converts a cosmetic entity to its API representation.
func FromEntity(c entity.Cosmetic) api.Cosmetic {
	return api.Cosmetic{
		Id:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		Rarity:      c.Rarity,
		Image:       c.Image,
		Price:       c.Price,
		IsNew:       c.IsNew,
		IsOnSale:    c.IsOnSale,
		AddedAt:     c.AddedAt,
		LastSync:    c.LastSync,
	}
}

// FromEntities converts a slice, never returning nil so that JSON renders [].
func FromEntities(cs []entity.Cosmetic) []api.Cosmetic {
	out := make([]api.Cosmetic, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromEntity(c))
	}
	return out
}
