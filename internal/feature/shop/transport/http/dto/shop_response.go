// Package dto maps shop entities onto the wire types in internal/api.
package dto

import (
	"cosmetics_store/internal/api"
	catalogdto "cosmetics_store/internal/feature/catalog/transport/http/dto"
	"cosmetics_store/internal/feature/shop/domain/entity"
)

// FromPurchase converts a purchase, embedding the cosmetic when it was loaded.
func FromPurchase(p entity.Purchase) api.Purchase {
	out := api.Purchase{
		Id:           p.ID,
		CosmeticId:   p.CosmeticID,
		CosmeticName: p.CosmeticName,
		Price:        p.Price,
		Returned:     p.Returned,
		ReturnedAt:   p.ReturnedAt,
		CreatedAt:    p.CreatedAt,
	}
	if p.Cosmetic != nil {
		c := catalogdto.FromEntity(*p.Cosmetic)
		out.Cosmetic = &c
	}
	return out
}

// FromPurchases never returns nil.
func FromPurchases(ps []entity.Purchase) []api.Purchase {
	out := make([]api.Purchase, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPurchase(p))
	}
	return out
}

// FromEntries converts ledger entries, never returning nil.
func FromEntries(es []entity.LedgerEntry) []api.LedgerEntry {
	out := make([]api.LedgerEntry, 0, len(es))
	for _, e := range es {
		out = append(out, api.LedgerEntry{
			Id:           e.ID,
			PurchaseId:   e.PurchaseID,
			Kind:         api.LedgerEntryKind(e.Kind),
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Reference:    e.Reference,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
