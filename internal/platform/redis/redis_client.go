// Package redis は市場データキャッシュ用のRedisクライアントを作成します。
package redis

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Config はRedis接続設定です。Addrが空の場合キャッシュは無効になります。
type Config struct {
	Addr     string
	Password string
	DB       int
}

// LoadConfig は REDIS_ADDR（または REDIS_HOST と REDIS_PORT）、
// REDIS_PASSWORD、REDIS_DB から設定を読み込みます。
func LoadConfig() Config {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" && os.Getenv("REDIS_HOST") != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		addr = os.Getenv("REDIS_HOST") + ":" + port
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db}
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool { return c.Addr != "" }

// NewRedisClient はRedisに接続し疎通確認を行います。
// キャッシュが無効な場合は nil, nil を返すので、結果をそのままキャッシュリポジトリに渡せます。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		slog.Info("Redis disabled, cache bypassed")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr)
	return rdb, nil
}
