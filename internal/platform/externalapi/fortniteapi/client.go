package fortniteapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"cosmetics_store/internal/feature/catalogsync/usecase"
)

// ErrUnexpectedShape is returned when the response envelope does not have the documented structure.
var ErrUnexpectedShape = errors.New("fortniteapi: unexpected response shape")

// Client はfortnite-api.comからコスメティック情報を取得するCatalogSource実装です。
// レスポンスは形が一定しないため、型付けせずに map として返します。
type Client struct {
	cfg  Config
	http *resty.Client
}

// ClientがCatalogSourceを実装していることをコンパイル時に検証します。
var _ usecase.CatalogSource = (*Client)(nil)

// NewClient は指定された設定とrestyクライアントでClientを生成します。
func NewClient(cfg Config, http *resty.Client) *Client {
	if cfg.APIKey != "" {
		http.SetHeader("Authorization", cfg.APIKey)
	}
	return &Client{cfg: cfg, http: http}
}

type envelope struct {
	Status int             `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// get はエンドポイントを呼び出し、data フィールドを返します。
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	if c.cfg.Language != "" {
		req.SetQueryParam("language", c.cfg.Language)
	}
	res, err := req.Get(c.cfg.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("fortniteapi GET %s: %w", path, err)
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("fortniteapi GET %s: http %d", path, res.StatusCode())
	}

	var env envelope
	if err := json.Unmarshal(res.Body(), &env); err != nil {
		return nil, fmt.Errorf("fortniteapi GET %s: decode: %w", path, err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("fortniteapi GET %s: %s", path, env.Error)
	}
	return env.Data, nil
}

// objects は配列要素のうちオブジェクトだけを返します。
func objects(v any) []map[string]any {
	arr, _ := v.([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func child(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// Cosmetics は GET /cosmetics/br の data 配列を返します。
func (c *Client) Cosmetics(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "/cosmetics/br")
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: /cosmetics/br: %v", ErrUnexpectedShape, err)
	}
	if _, ok := data.([]any); !ok {
		return nil, fmt.Errorf("%w: /cosmetics/br data is not an array", ErrUnexpectedShape)
	}
	return objects(data), nil
}

// ShopEntries は GET /shop/br のエントリを返します。
// featured / daily / specialFeatured セクション形式と、data.entries のフラット形式の両方に対応します。
func (c *Client) ShopEntries(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "/shop/br")
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: /shop/br: %v", ErrUnexpectedShape, err)
		}
	}

	var entries []map[string]any
	for _, section := range []string{"featured", "daily", "specialFeatured"} {
		entries = append(entries, objects(child(data, section)["entries"])...)
	}
	entries = append(entries, objects(data["entries"])...)
	return entries, nil
}

// NewItems は GET /cosmetics/new の data.items.br を返します。
func (c *Client) NewItems(ctx context.Context) ([]map[string]any, error) {
	raw, err := c.get(ctx, "/cosmetics/new")
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: /cosmetics/new: %v", ErrUnexpectedShape, err)
		}
	}
	return objects(child(data, "items")["br"]), nil
}
