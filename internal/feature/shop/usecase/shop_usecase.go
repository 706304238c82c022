package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalog "cosmetics_store/internal/feature/catalog/domain/entity"
	"cosmetics_store/internal/feature/shop/domain/entity"
)

// Ledger はショップの永続化層を抽象化します。
// 残高・購入・台帳の更新は必ず Atomic 内の LedgerTx を通じて行います。
type Ledger interface {
	// Atomic runs fn in a single database transaction. Any error returned by fn rolls back every write.
	Atomic(ctx context.Context, fn func(tx LedgerTx) error) error
	// ListPurchases returns the user's purchases newest first with the cosmetic preloaded.
	ListPurchases(ctx context.Context, userID uint) ([]entity.Purchase, error)
	// ListEntries returns the user's ledger entries newest first.
	ListEntries(ctx context.Context, userID uint) ([]entity.LedgerEntry, error)
}

// LedgerTx is the set of writes available inside a transaction.
// Implementations are bound to the transaction's context.
type LedgerTx interface {
	// LockUserBalance locks the user row and returns the current balance. ErrUserNotFound if missing.
	LockUserBalance(userID uint) (int, error)
	// FindCosmetic loads a catalog item. ErrCosmeticNotFound if missing.
	FindCosmetic(id string) (*catalog.Cosmetic, error)
	// HasActivePurchase reports whether the user owns a non-returned purchase of the cosmetic.
	HasActivePurchase(userID uint, cosmeticID string) (bool, error)
	// DebitBalance subtracts amount only if the balance covers it and returns the new balance.
	// ErrInsufficientFunds if the guarded update matched no row.
	DebitBalance(userID uint, amount int) (int, error)
	// CreditBalance adds amount and returns the new balance.
	CreditBalance(userID uint, amount int) (int, error)
	CreatePurchase(p *entity.Purchase) error
	// LockPurchase locks and returns the purchase. ErrPurchaseNotFound if missing.
	LockPurchase(id uint) (*entity.Purchase, error)
	MarkReturned(id uint, at time.Time) error
	AppendEntry(e *entity.LedgerEntry) error
}

// BuyResult は購入結果です。
type BuyResult struct {
	Purchase   entity.Purchase
	NewBalance int
}

// RefundResult は返品結果です。
type RefundResult struct {
	PurchaseID uint
	Refunded   int
	NewBalance int
}

type shopUsecase struct {
	ledger Ledger
	now    func() time.Time
	newRef func() string
}

// NewShopUsecase creates the purchase/refund usecase.
func NewShopUsecase(ledger Ledger) *shopUsecase {
	return &shopUsecase{
		ledger: ledger,
		now:    func() time.Time { return time.Now().UTC() },
		newRef: func() string { return uuid.NewString() },
	}
}

// Buy は指定されたコスメティックを購入します。
// 価格はカタログの値を使用し、クライアントが送った価格は信用しません。
func (u *shopUsecase) Buy(ctx context.Context, userID uint, cosmeticID string) (*BuyResult, error) {
	cosmeticID = strings.TrimSpace(cosmeticID)
	if cosmeticID == "" {
		return nil, ErrCosmeticNotFound
	}

	var res BuyResult
	err := u.ledger.Atomic(ctx, func(tx LedgerTx) error {
		balance, err := tx.LockUserBalance(userID)
		if err != nil {
			return err
		}
		cosmetic, err := tx.FindCosmetic(cosmeticID)
		if err != nil {
			return err
		}
		owned, err := tx.HasActivePurchase(userID, cosmetic.ID)
		if err != nil {
			return err
		}
		if owned {
			return ErrAlreadyOwned
		}
		if balance < cosmetic.Price {
			return ErrInsufficientFunds
		}

		newBalance, err := tx.DebitBalance(userID, cosmetic.Price)
		if err != nil {
			return err
		}

		now := u.now()
		p := entity.Purchase{
			UserID:       userID,
			CosmeticID:   cosmetic.ID,
			CosmeticName: cosmetic.Name,
			Price:        cosmetic.Price,
			CreatedAt:    now,
		}
		if err := tx.CreatePurchase(&p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if err := tx.AppendEntry(&entity.LedgerEntry{
			UserID:       userID,
			PurchaseID:   p.ID,
			Kind:         entity.EntryPurchase,
			Amount:       -cosmetic.Price,
			BalanceAfter: newBalance,
			Reference:    u.newRef(),
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		p.Cosmetic = cosmetic
		res = BuyResult{Purchase: p, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Refund は購入を返品し、支払額を残高に戻します。返品は1回のみ可能です。
func (u *shopUsecase) Refund(ctx context.Context, userID, purchaseID uint) (*RefundResult, error) {
	var res RefundResult
	err := u.ledger.Atomic(ctx, func(tx LedgerTx) error {
		p, err := tx.LockPurchase(purchaseID)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return ErrNotOwner
		}
		if p.Returned {
			return ErrAlreadyReturned
		}

		now := u.now()
		if err := tx.MarkReturned(p.ID, now); err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		// 返金は purchases をロックした後に users をロックする（Buy とは逆順）
		if _, err := tx.LockUserBalance(userID); err != nil {
			return err
		}
		newBalance, err := tx.CreditBalance(userID, p.Price)
		if err != nil {
			return err
		}
		if err := tx.AppendEntry(&entity.LedgerEntry{
			UserID:       userID,
			PurchaseID:   p.ID,
			Kind:         entity.EntryRefund,
			Amount:       p.Price,
			BalanceAfter: newBalance,
			Reference:    u.newRef(),
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		res = RefundResult{PurchaseID: p.ID, Refunded: p.Price, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Purchases lists the user's purchases, newest first.
func (u *shopUsecase) Purchases(ctx context.Context, userID uint) ([]entity.Purchase, error) {
	ps, err := u.ledger.ListPurchases(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []entity.Purchase{}
	}
	return ps, nil
}

// History lists the user's ledger entries, newest first.
func (u *shopUsecase) History(ctx context.Context, userID uint) ([]entity.LedgerEntry, error) {
	es, err := u.ledger.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if es == nil {
		es = []entity.LedgerEntry{}
	}
	return es, nil
}
