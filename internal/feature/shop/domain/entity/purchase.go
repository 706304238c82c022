// Package entity defines the domain entities for the shop feature.
package entity

import (
	"time"

	catalog "cosmetics_store/internal/feature/catalog/domain/entity"
)

// Purchase records that a user owns a cosmetic. A returned purchase no longer counts as owned.
type Purchase struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index:idx_purchase_owner;not null"`
	CosmeticID   string `gorm:"size:128;index:idx_purchase_owner;not null"`
	CosmeticName string `gorm:"size:255;not null"`
	// Price is the amount debited at purchase time, taken from the catalog.
	Price      int  `gorm:"not null"`
	Returned   bool `gorm:"not null;default:false"`
	ReturnedAt *time.Time
	CreatedAt  time.Time `gorm:"index"`

	Cosmetic *catalog.Cosmetic `gorm:"foreignKey:CosmeticID;references:ID"`
}

// EntryKind は台帳エントリの種別です。
type EntryKind string

const (
	EntryPurchase EntryKind = "purchase"
	EntryRefund   EntryKind = "refund"
)

// LedgerEntry is an append-only audit record of a balance change.
// Amount is the signed delta applied to the balance.
type LedgerEntry struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	PurchaseID   uint      `gorm:"index;not null"`
	Kind         EntryKind `gorm:"size:16;not null"`
	Amount       int       `gorm:"not null"`
	BalanceAfter int       `gorm:"not null"`
	Reference    string    `gorm:"size:36;uniqueIndex;not null"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName pins the table name.
func (LedgerEntry) TableName() string { return "ledger_entries" }
