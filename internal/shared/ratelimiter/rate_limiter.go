package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は、外部API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、interval あたり limit 回までの呼び出しを許可します。
type RateLimiter struct {
	limit    int
	interval time.Duration
	lim      *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限なしとして扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	every := rate.Every(interval / time.Duration(limit))
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		lim:      rate.NewLimiter(every, limit),
	}
}

// Wait はトークンが得られるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if !rl.lim.Allow() {
		// 上限に達したときだけログを出す
		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval)
		return rl.lim.Wait(ctx)
	}
	return nil
}
