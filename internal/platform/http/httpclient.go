package http

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"erasmus_backend/internal/platform/metrics"
)

// ClientConfig は外部API用HTTPクライアントの設定です。
// ゼロ値の項目には既定値が使われます。
type ClientConfig struct {
	Timeout         time.Duration // リクエスト全体のタイムアウト
	DialTimeout     time.Duration // TCP接続タイムアウト（既定 5s）
	MaxIdleConns    int           // 既定 100
	IdleConnTimeout time.Duration // 既定 90s
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 100
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = 90 * time.Second
	}
	return c
}

// NewHTTPClient は国・都市APIなどの外部呼び出しに使うHTTPクライアントを作成します。
//
// http.DefaultClient はタイムアウトを持たないため使用しません。
// 全リクエストは instrumentedTransport を経由し、上流ホストごとのレイテンシが記録されます。
func NewHTTPClient(cfg ClientConfig) *http.Client {
	cfg = cfg.withDefaults()
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: &instrumentedTransport{next: base}}
}

// instrumentedTransport は上流呼び出しの所要時間をメトリクスとログに残します。
type instrumentedTransport struct {
	next http.RoundTripper
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.UpstreamRequestDuration.WithLabelValues(req.URL.Host, status).Observe(elapsed.Seconds())

	if err != nil {
		slog.WarnContext(req.Context(), "upstream request failed",
			"method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "elapsed", elapsed, "err", err)
		return nil, err
	}
	slog.DebugContext(req.Context(), "upstream request",
		"method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.StatusCode, "elapsed", elapsed)
	return resp, nil
}
