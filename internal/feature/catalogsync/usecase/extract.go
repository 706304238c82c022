package usecase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"cosmetics_store/internal/feature/catalog/domain/entity"
)

const (
	// DefaultPrice は価格情報が得られない場合の値です。
	DefaultPrice       = 1500
	// maxPrice を超える値は外部APIの異常値として扱います。
	maxPrice           = math.MaxInt32
	defaultDescription = "No description"
	defaultType        = "Item"
	defaultRarity      = "common"
)

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func obj(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// number は JSON の数値・数値文字列を float64 に変換します。NaN / ±Inf は不正値です。
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ResolvePrice returns the first finite value in (0, maxPrice] among
// price, priceInVbucks, price.value and shopHistory.finalPrice, or DefaultPrice.
func ResolvePrice(item map[string]any) int {
	sources := []any{
		item["price"],
		item["priceInVbucks"],
		obj(item, "price")["value"],
		obj(item, "shopHistory")["finalPrice"],
	}
	for _, v := range sources {
		if f, ok := number(v); ok && f > 0 && f <= maxPrice {
			return int(math.Round(f))
		}
	}
	return DefaultPrice
}

// EntryPrice はショップエントリの価格です。finalPrice, regularPrice, fullPrice の順で
// 最初に存在する値を使い、数値でない・負・maxPrice 超過なら DefaultPrice とします。
func EntryPrice(entry map[string]any) int {
	for _, key := range []string{"finalPrice", "regularPrice", "fullPrice"} {
		v, present := entry[key]
		if !present || v == nil {
			continue
		}
		if f, ok := number(v); ok && f >= 0 && f <= maxPrice {
			return int(math.Round(f))
		}
		return DefaultPrice
	}
	return DefaultPrice
}

// EntryItemIDs returns the ids of items (or brItems) in a shop entry.
func EntryItemIDs(entry map[string]any) []string {
	raw, ok := entry["items"].([]any)
	if !ok || len(raw) == 0 {
		raw, _ = entry["brItems"].([]any)
	}
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			if id := str(m, "id"); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// parseAdded は RFC3339 の日時を解釈し、不正・欠落時は now を返します。
func parseAdded(v string, now time.Time) time.Time {
	if v == "" {
		return now
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return now
	}
	return t.UTC()
}

func typeOf(item map[string]any) (label, key string) {
	t := obj(item, "type")
	label = firstNonEmpty(str(t, "displayValue"), str(t, "value"), defaultType)
	key = strings.ToLower(firstNonEmpty(str(t, "value"), label))
	return label, key
}

func rarityOf(item map[string]any) string {
	return strings.ToLower(firstNonEmpty(str(obj(item, "rarity"), "value"), defaultRarity))
}

// ParseCosmetic は /cosmetics/br の1要素をエンティティに変換します。
// id, name, 画像のいずれかが欠けている場合は false を返します。
func ParseCosmetic(item map[string]any, now time.Time) (entity.Cosmetic, bool) {
	id, name := str(item, "id"), str(item, "name")
	if id == "" || name == "" {
		return entity.Cosmetic{}, false
	}
	images := obj(item, "images")
	image := firstNonEmpty(str(images, "icon"), str(images, "featured"), str(images, "smallIcon"))
	if image == "" {
		return entity.Cosmetic{}, false
	}
	label, key := typeOf(item)
	return entity.Cosmetic{
		ID:          id,
		Name:        name,
		Description: firstNonEmpty(str(item, "description"), defaultDescription),
		Type:        label,
		TypeKey:     key,
		Rarity:      rarityOf(item),
		Image:       image,
		Price:       ResolvePrice(item),
		AddedAt:     parseAdded(str(item, "added"), now),
		LastSync:    now,
	}, true
}

// ParseNewItem converts an element of /cosmetics/new. Only id and an icon (or smallIcon) are required.
func ParseNewItem(item map[string]any, now time.Time) (entity.Cosmetic, bool) {
	id := str(item, "id")
	if id == "" {
		return entity.Cosmetic{}, false
	}
	images := obj(item, "images")
	image := firstNonEmpty(str(images, "icon"), str(images, "smallIcon"))
	if image == "" {
		return entity.Cosmetic{}, false
	}
	label, key := typeOf(item)
	return entity.Cosmetic{
		ID:          id,
		Name:        firstNonEmpty(str(item, "name"), id),
		Description: firstNonEmpty(str(item, "description"), defaultDescription),
		Type:        label,
		TypeKey:     key,
		Rarity:      rarityOf(item),
		Image:       image,
		Price:       ResolvePrice(item),
		IsNew:       true,
		AddedAt:     now,
		LastSync:    now,
	}, true
}

// fallbackCosmetics は外部APIが使えずテーブルが空のときに投入する商品です。
func fallbackCosmetics(now time.Time) []entity.Cosmetic {
	base := []entity.Cosmetic{
		{ID: "mock_1", Name: "Ramirez", Rarity: "common", Price: 800,
			Image: "https://fortnite-api.com/images/cosmetics/br/cid_001_athena_commando_f_default/icon.png"},
		{ID: "mock_2", Name: "Black Knight", Rarity: "legendary", Price: 2000,
			Image: "https://fortnite-api.com/images/cosmetics/br/cid_028_athena_commando_m/icon.png"},
		{ID: "mock_3", Name: "Peely", Rarity: "epic", Price: 1500,
			Image: "https://fortnite-api.com/images/cosmetics/br/cid_342_athena_commando_m_banana/icon.png"},
	}
	for i := range base {
		base[i].Description = "Fallback"
		base[i].Type = "Outfit"
		base[i].TypeKey = "outfit"
		base[i].IsNew = true
		base[i].IsOnSale = true
		base[i].AddedAt = now
		base[i].LastSync = now
	}
	return base
}
