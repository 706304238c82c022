// Package config loads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// Config holds all settings for the server and the sync job.
type Config struct {
	Port          string
	JWTSecret     string
	JWTExpiration time.Duration
	CORSOrigins   []string

	RunMigrations bool

	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheTTL      time.Duration

	FortniteAPIBase     string
	FortniteAPIKey      string
	FortniteAPILanguage string
	FortniteSyncLimit   int
	FortniteTimeout     time.Duration

	SyncCronExpr string
	SyncOnStart  bool
}

// Load reads a .env file when one exists and then builds a Config from the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() Config {
	return Config{
		Port:          getEnv("PORT", "4000"),
		JWTSecret:     os.Getenv(EnvKeyJWTSecret),
		JWTExpiration: getDuration("JWT_EXPIRATION", 7*24*time.Hour),
		CORSOrigins:   getList("CORS_ORIGINS", []string{"*"}),

		RunMigrations: getBool("RUN_MIGRATIONS", false),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getDuration("CACHE_TTL", 30*time.Minute),

		FortniteAPIBase:     strings.TrimRight(getEnv("FORTNITE_API_BASE", "https://fortnite-api.com/v2"), "/"),
		FortniteAPIKey:      os.Getenv("FORTNITE_API_KEY"),
		FortniteAPILanguage: os.Getenv("FORTNITE_API_LANGUAGE"),
		FortniteSyncLimit:   getInt("FORTNITE_SYNC_LIMIT", 500),
		FortniteTimeout:     getDuration("FORTNITE_API_TIMEOUT", 30*time.Second),

		SyncCronExpr: getEnv("SYNC_CRON_EXPR", "0 3 * * *"),
		SyncOnStart:  getBool("SYNC_ON_START", false),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
