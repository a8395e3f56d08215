// Package di はアプリケーションのコンポーネントを組み立てるファクトリーを提供します。
package di

import (
	"github.com/redis/go-redis/v9"

	"erasmus_backend/internal/config"
	"erasmus_backend/internal/feature/location/usecase"
	"erasmus_backend/internal/platform/cache"
	"erasmus_backend/internal/platform/externalapi/countriesnow"
	infrahttp "erasmus_backend/internal/platform/http"
)

// NewLocationRepository はCountriesNowクライアントを生成し、Redisキャッシュで包んで返します。
// rdbがnilの場合、キャッシュは素通しになります。
func NewLocationRepository(cfg *config.Config, rdb *redis.Client) usecase.LocationRepository {
	httpClient := infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: cfg.CountriesAPITimeout})
	client := countriesnow.NewClient(countriesnow.Config{
		BaseURL:   cfg.CountriesAPIBaseURL,
		Timeout:   cfg.CountriesAPITimeout,
		RateLimit: cfg.CountriesAPIRateLimit,
	}, httpClient)
	return cache.NewCachingLocationRepository(rdb, cfg.CacheTTL, client, "locations")
}
