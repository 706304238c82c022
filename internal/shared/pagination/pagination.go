// Package pagination normalizes page/limit query values and computes page counts.
package pagination

import "math"

// MaxOffset bounds the row offset so it fits every SQL dialect's OFFSET.
const MaxOffset = math.MaxInt32

// Normalize clamps page to >= 1 and limit to [1, maxLimit], using def when limit is not positive.
func Normalize(page, limit, def, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	// (page-1)*limit が MaxOffset を超えないよう page を制限する
	if maxPage := MaxOffset / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// Offset returns the row offset of the given page, saturated at MaxOffset.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > MaxOffset/limit {
		return MaxOffset
	}
	return (page - 1) * limit
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
