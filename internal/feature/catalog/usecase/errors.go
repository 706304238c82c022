// Package usecase implements the business logic for the catalog feature.
package usecase

import "errors"

var (
	// ErrCosmeticNotFound is returned when no cosmetic matches the requested id.
	ErrCosmeticNotFound = errors.New("cosmetic not found")
)
