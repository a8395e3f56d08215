// Package countriesnow は公開API「CountriesNow」のクライアントを提供します。
package countriesnow

import (
	"time"
)

// Config はCountriesNow APIクライアントの設定です。
type Config struct {
	BaseURL   string        // Base URL for the API (e.g., "https://countriesnow.space/api/v0.1")
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // Maximum calls per minute
}
