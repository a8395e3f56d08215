// Package cache はリポジトリのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"erasmus_backend/internal/feature/location/domain/entity"
	"erasmus_backend/internal/feature/location/usecase"
	"erasmus_backend/internal/platform/metrics"
)

const (
	defaultTTL       = 24 * time.Hour
	defaultNamespace = "locations"
)

// CachingLocationRepository はLocationRepositoryにRedisのリードスルーキャッシュを被せます。
// 国と都市の一覧はほとんど変わらないため、エントリはttlで失効させるだけです。
type CachingLocationRepository struct {
	inner     usecase.LocationRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.LocationRepository = (*CachingLocationRepository)(nil)

// NewCachingLocationRepository はLocationRepositoryをRedisキャッシュでラップします。
// ttlが0なら24時間、namespaceが空なら"locations"を使います。
// rdbがnilの場合はキャッシュせずにそのまま呼び出します。
func NewCachingLocationRepository(rdb *redis.Client, ttl time.Duration, inner usecase.LocationRepository, namespace string) *CachingLocationRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingLocationRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Countries は国の一覧を返します。キャッシュになければ外部APIから取得します。
func (c *CachingLocationRepository) Countries(ctx context.Context) ([]entity.Country, error) {
	return readThrough(ctx, c, c.namespace+":countries", func() ([]entity.Country, error) {
		return c.inner.Countries(ctx)
	})
}

// Cities は国の都市一覧を返します。まずキャッシュを確認します。
func (c *CachingLocationRepository) Cities(ctx context.Context, country string) ([]string, error) {
	key := c.namespace + ":cities:" + safe(strings.ToLower(country))
	return readThrough(ctx, c, key, func() ([]string, error) {
		return c.inner.Cities(ctx, country)
	})
}

func readThrough[T any](ctx context.Context, c *CachingLocationRepository, key string, load func() ([]T, error)) ([]T, error) {
	// Redis未設定ならキャッシュを使わない
	if c.rdb == nil {
		return load()
	}

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			metrics.CacheLookupsTotal.WithLabelValues(c.namespace, "hit").Inc()
			return out, nil
		}
		// 壊れたエントリは削除する
		_ = c.rdb.Del(ctx, key).Err()
	}
	metrics.CacheLookupsTotal.WithLabelValues(c.namespace, "miss").Inc()

	// 2) 外部APIから取得
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) キャッシュに保存（失敗しても続行）
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// safe はRedisのキーで問題になる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
