// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// StartingVBucks is the balance granted to every new account.
const StartingVBucks = 10000

// User represents a registered customer of the storefront.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the normalized (trimmed, lowercased) address used for login.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// VBucks is the virtual-currency balance. It never drops below 0.
	VBucks int `gorm:"column:vbucks;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
