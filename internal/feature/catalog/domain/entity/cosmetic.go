// Package entity defines the domain entities for the catalog feature.
package entity

import "time"

// Cosmetic is a catalog item mirrored from the external cosmetics API.
type Cosmetic struct {
	// ID is the external API identifier (e.g. "CID_028_Athena_Commando_F").
	ID string `gorm:"primaryKey;size:128"`

	Name        string `gorm:"size:255;not null;index"`
	Description string `gorm:"type:text"`

	// Type is the display label ("Outfit"); TypeKey is the machine value ("outfit") used for filtering.
	Type    string `gorm:"size:64"`
	TypeKey string `gorm:"size:64;index"`

	Rarity string `gorm:"size:64;index"`
	Image  string `gorm:"size:512"`

	// Price is in V-Bucks.
	Price int `gorm:"not null"`

	IsNew    bool `gorm:"not null;index"`
	IsOnSale bool `gorm:"not null;index"`

	AddedAt  time.Time `gorm:"index"`
	LastSync time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
