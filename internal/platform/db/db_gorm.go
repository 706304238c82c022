// Package db はGORMによるデータベース接続とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// 接続リトライの間隔。テストから短縮できるよう変数にしています。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL のインスタンス接続名（設定時はUnixソケットを使用）
	Path         string // SQLite のファイルパス
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if driver == "" {
		driver = DriverMySQL
	}
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "cosmetics.db"
	}
	return Config{
		Driver:       driver,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		Path:         path,
	}
}

// BuildDSN はMySQL用のDSN文字列を生成します。
// InstanceName が設定されている場合は Cloud SQL の Unix ソケット形式を優先します。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN はPostgreSQL用のキーワード形式DSNを生成します。
func BuildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, cfg.User, cfg.Password, cfg.Name)
}

// Opener はDSNからgorm.DBを開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener はドライバー名に対応するDSNとOpenerを返します。
func NewOpener(cfg Config) (string, Opener, error) {
	gcfg := &gorm.Config{TranslateError: true}
	switch cfg.Driver {
	case DriverMySQL:
		return BuildDSN(cfg), func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), gcfg)
		}, nil
	case DriverPostgres:
		return BuildPostgresDSN(cfg), func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverSQLite:
		return cfg.Path, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ConnectWithRetry はタイムアウトに達するまで接続をリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従ってデータベースへ接続します（最大60秒リトライ）。
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn, opener, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(dsn, 60*time.Second, opener)
	if err != nil {
		return nil, err
	}
	slog.Info("DB connection successful", "driver", cfg.Driver)
	return db, nil
}

// Migrate は渡されたモデルのテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// IsDuplicateKey は一意制約違反のエラーかどうかを判定します。
// GORMの変換済みエラー、MySQL 1062、PostgreSQL 23505 に対応します。
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}
