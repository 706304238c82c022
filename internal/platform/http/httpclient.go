// Package http builds outbound HTTP clients for external API calls.
package http

import (
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// http.DefaultClient にはタイムアウトがないため、常にこのクライアントを使用すること。
// ダイヤルとTLSハンドシェイクは短めに、アイドル接続は再利用できるよう保持します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// NewRestyClient wraps NewHTTPClient in a resty client bound to baseURL.
// Transient failures (network errors and 5xx) are retried twice with backoff.
func NewRestyClient(baseURL string, timeout time.Duration, userAgent string) *resty.Client {
	return resty.NewWithClient(NewHTTPClient(timeout)).
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}
