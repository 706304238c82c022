// Package fortniteapi provides a client for the fortnite-api.com cosmetics API.
package fortniteapi

import (
	"strings"
	"time"

	"cosmetics_store/internal/platform/config"
)

// DefaultBaseURL is the public v2 endpoint.
const DefaultBaseURL = "https://fortnite-api.com/v2"

// Config holds configuration for the Fortnite API client.
type Config struct {
	BaseURL  string        // e.g. "https://fortnite-api.com/v2"
	APIKey   string        // sent as the Authorization header when set
	Language string        // optional "language" query parameter
	Timeout  time.Duration // HTTP request timeout
}

// ConfigFrom はアプリ設定からクライアント設定を組み立てます。
func ConfigFrom(c config.Config) Config {
	base := strings.TrimRight(c.FortniteAPIBase, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := c.FortniteTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Config{
		BaseURL:  base,
		APIKey:   c.FortniteAPIKey,
		Language: c.FortniteAPILanguage,
		Timeout:  timeout,
	}
}
