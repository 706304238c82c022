package usecase

import "errors"

var (
	// ErrSyncInProgress is returned when another sync run holds the lock.
	ErrSyncInProgress = errors.New("catalog sync already in progress")
	// ErrCatalogUnavailable はカタログ取得に失敗したことを示します（シード投入の有無に関わらず）。
	ErrCatalogUnavailable = errors.New("catalog source unavailable")
)
