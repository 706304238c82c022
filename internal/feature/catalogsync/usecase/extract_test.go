package usecase

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 3, 0, 0, 0, time.UTC)

// decode は実際のレスポンスと同じく encoding/json で map を作ります。
func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestParseCosmetic(t *testing.T) {
	t.Parallel()

	t.Run("full item", func(t *testing.T) {
		t.Parallel()
		item := decode(t, `{
			"id": "CID_028_Athena_Commando_F",
			"name": "Renegade Raider",
			"description": "Rare renegade raider outfit.",
			"type": {"value": "outfit", "displayValue": "Outfit"},
			"rarity": {"value": "Rare"},
			"images": {"smallIcon": "s.png", "icon": "i.png", "featured": "f.png"},
			"added": "2018-01-01T10:00:00Z",
			"price": 1200
		}`)
		c, ok := ParseCosmetic(item, fixedNow)
		require.True(t, ok)
		assert.Equal(t, "CID_028_Athena_Commando_F", c.ID)
		assert.Equal(t, "Renegade Raider", c.Name)
		assert.Equal(t, "Outfit", c.Type)
		assert.Equal(t, "outfit", c.TypeKey)
		assert.Equal(t, "rare", c.Rarity)
		assert.Equal(t, "i.png", c.Image)
		assert.Equal(t, 1200, c.Price)
		assert.Equal(t, time.Date(2018, 1, 1, 10, 0, 0, 0, time.UTC), c.AddedAt)
		assert.Equal(t, fixedNow, c.LastSync)
		assert.False(t, c.IsNew)
		assert.False(t, c.IsOnSale)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		c, ok := ParseCosmetic(decode(t, `{"id":"x","name":"X","images":{"smallIcon":"s.png"},"added":"yesterday"}`), fixedNow)
		require.True(t, ok)
		assert.Equal(t, "No description", c.Description)
		assert.Equal(t, "Item", c.Type)
		assert.Equal(t, "item", c.TypeKey)
		assert.Equal(t, "common", c.Rarity)
		assert.Equal(t, "s.png", c.Image)
		assert.Equal(t, DefaultPrice, c.Price)
		assert.Equal(t, fixedNow, c.AddedAt)
	})

	t.Run("huge price never goes negative", func(t *testing.T) {
		t.Parallel()
		c, ok := ParseCosmetic(decode(t, `{"id":"x","name":"X","images":{"icon":"i.png"},"price":1e19}`), fixedNow)
		require.True(t, ok)
		assert.Equal(t, DefaultPrice, c.Price)
	})

	t.Run("image falls back to featured", func(t *testing.T) {
		t.Parallel()
		c, ok := ParseCosmetic(decode(t, `{"id":"x","name":"X","images":{"featured":"f.png","smallIcon":"s.png"}}`), fixedNow)
		require.True(t, ok)
		assert.Equal(t, "f.png", c.Image)
	})

	t.Run("type value only", func(t *testing.T) {
		t.Parallel()
		c, ok := ParseCosmetic(decode(t, `{"id":"x","name":"X","type":{"value":"Emote"},"images":{"icon":"i.png"}}`), fixedNow)
		require.True(t, ok)
		assert.Equal(t, "Emote", c.Type)
		assert.Equal(t, "emote", c.TypeKey)
	})

	skipped := []struct {
		name string
		raw  string
	}{
		{"missing id", `{"name":"X","images":{"icon":"i.png"}}`},
		{"missing name", `{"id":"x","images":{"icon":"i.png"}}`},
		{"blank name", `{"id":"x","name":"  ","images":{"icon":"i.png"}}`},
		{"no images", `{"id":"x","name":"X"}`},
		{"images not an object", `{"id":"x","name":"X","images":"i.png"}`},
		{"id not a string", `{"id":12,"name":"X","images":{"icon":"i.png"}}`},
	}
	for _, tt := range skipped {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseCosmetic(decode(t, tt.raw), fixedNow)
			assert.False(t, ok)
		})
	}
}

func TestParseNewItem(t *testing.T) {
	t.Parallel()

	c, ok := ParseNewItem(decode(t, `{"id":"EID_Dance","images":{"smallIcon":"s.png"}}`), fixedNow)
	require.True(t, ok)
	assert.Equal(t, "EID_Dance", c.Name)
	assert.True(t, c.IsNew)
	assert.Equal(t, fixedNow, c.AddedAt)
	assert.Equal(t, "s.png", c.Image)

	// featured は新着では画像として扱わない
	_, ok = ParseNewItem(decode(t, `{"id":"x","images":{"featured":"f.png"}}`), fixedNow)
	assert.False(t, ok)

	_, ok = ParseNewItem(decode(t, `{"name":"no id","images":{"icon":"i.png"}}`), fixedNow)
	assert.False(t, ok)
}

func TestResolvePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item map[string]any
		want int
	}{
		{"price number", map[string]any{"price": float64(800)}, 800},
		{"price string", map[string]any{"price": "950"}, 950},
		{"zero price falls through", map[string]any{"price": float64(0), "priceInVbucks": float64(1200)}, 1200},
		{"negative ignored", map[string]any{"price": float64(-5)}, DefaultPrice},
		{"nested value", map[string]any{"price": map[string]any{"value": float64(2000)}}, 2000},
		{"shop history", map[string]any{"shopHistory": map[string]any{"finalPrice": json.Number("1600")}}, 1600},
		{"non-numeric string", map[string]any{"price": "free"}, DefaultPrice},
		{"infinite", map[string]any{"price": math.Inf(1)}, DefaultPrice},
		{"NaN", map[string]any{"price": math.NaN()}, DefaultPrice},
		{"int", map[string]any{"priceInVbucks": 500}, 500},
		{"overflowing price ignored", map[string]any{"price": 1e19}, DefaultPrice},
		{"above int32 falls through", map[string]any{"price": float64(math.MaxInt32) + 1, "priceInVbucks": float64(900)}, 900},
		{"max int32 kept", map[string]any{"price": float64(math.MaxInt32)}, math.MaxInt32},
		{"empty", map[string]any{}, DefaultPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ResolvePrice(tt.item))
		})
	}
}

func TestEntryPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry map[string]any
		want  int
	}{
		{"final price", map[string]any{"finalPrice": float64(1200), "regularPrice": float64(1500)}, 1200},
		{"regular price", map[string]any{"regularPrice": float64(1500)}, 1500},
		{"full price", map[string]any{"fullPrice": float64(2000)}, 2000},
		{"null final price skipped", map[string]any{"finalPrice": nil, "regularPrice": float64(900)}, 900},
		{"free item", map[string]any{"finalPrice": float64(0)}, 0},
		{"garbage final price", map[string]any{"finalPrice": "n/a", "regularPrice": float64(900)}, DefaultPrice},
		{"missing", map[string]any{}, DefaultPrice},
		{"overflowing final price", map[string]any{"finalPrice": 1e19}, DefaultPrice},
		{"negative final price", map[string]any{"finalPrice": float64(-100)}, DefaultPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EntryPrice(tt.entry))
		})
	}
}

func TestEntryItemIDs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"},
		EntryItemIDs(decode(t, `{"items":[{"id":"a"},{"id":""},"junk",{"id":"b"}]}`)))
	assert.Equal(t, []string{"c"},
		EntryItemIDs(decode(t, `{"items":[],"brItems":[{"id":"c"}]}`)))
	assert.Empty(t, EntryItemIDs(decode(t, `{"items":"nope"}`)))
}

func TestFallbackCosmetics(t *testing.T) {
	t.Parallel()

	seed := fallbackCosmetics(fixedNow)
	require.Len(t, seed, 3)
	for _, c := range seed {
		assert.True(t, c.IsNew, c.ID)
		assert.True(t, c.IsOnSale, c.ID)
		assert.Equal(t, "outfit", c.TypeKey)
		assert.NotEmpty(t, c.Image)
	}
	assert.Equal(t, "Black Knight", seed[1].Name)
	assert.Equal(t, 2000, seed[1].Price)
}
