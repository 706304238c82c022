// Package usecase implements the purchase and refund ledger.
package usecase

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCosmeticNotFound  = errors.New("cosmetic not found")
	ErrAlreadyOwned      = errors.New("cosmetic already owned")
	ErrInsufficientFunds = errors.New("insufficient vbucks")
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrNotOwner          = errors.New("purchase belongs to another user")
	ErrAlreadyReturned   = errors.New("purchase already returned")
)
