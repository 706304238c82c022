package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative page", -4, 10, 1, 10},
		{"limit over max", 3, 1000, 3, 100},
		{"negative limit uses default", 2, -1, 2, 20},
		{"in range", 5, 50, 5, 50},
		{"huge page is capped", math.MaxInt, 20, math.MaxInt32 / 20, 20},
		{"huge page with limit 1", math.MaxInt, 1, math.MaxInt32, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, limit := Normalize(tt.page, tt.limit, 20, 100)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLim, limit)
		})
	}
}

func TestOffsetAndPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 0, Offset(-3, 20))
	assert.Equal(t, MaxOffset, Offset(math.MaxInt, 100))
	assert.Equal(t, MaxOffset, Offset(math.MaxInt32, 2))

	page, limit := Normalize(math.MaxInt, 100, 20, 100)
	assert.LessOrEqual(t, Offset(page, limit), MaxOffset)
	assert.Positive(t, Offset(page, limit))

	assert.Equal(t, 0, Pages(0, 20))
	assert.Equal(t, 1, Pages(1, 20))
	assert.Equal(t, 1, Pages(20, 20))
	assert.Equal(t, 2, Pages(21, 20))
	assert.Equal(t, 0, Pages(10, 0))
}
