package redis

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when no Redis host is configured.
var ErrNotConfigured = errors.New("redis host not configured")

// NewRedisClient connects to Redis and verifies the connection with PING.
// An empty host means caching is disabled and ErrNotConfigured is returned.
func NewRedisClient(ctx context.Context, host, port, password string) (*redis.Client, error) {
	if host == "" {
		return nil, ErrNotConfigured
	}
	addr := net.JoinHostPort(host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
