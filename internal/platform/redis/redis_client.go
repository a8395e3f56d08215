// Package redis はキャッシュ用のRedisクライアントを生成します。
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled はREDIS_ADDRが未設定でRedisを使わない場合に返されます。
var ErrDisabled = errors.New("redis disabled: REDIS_ADDR is empty")

// pingTimeout は起動時の接続確認のタイムアウトです。
const pingTimeout = 3 * time.Second

// NewRedisClient はaddrのRedisに接続し、Pingで疎通を確認します。
// addrが空の場合はErrDisabledを返し、呼び出し側はキャッシュなしで動作します。
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, ErrDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
