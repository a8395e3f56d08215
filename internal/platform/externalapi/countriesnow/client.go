package countriesnow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"erasmus_backend/internal/feature/location/domain/entity"
	"erasmus_backend/internal/feature/location/usecase"
	"erasmus_backend/internal/platform/externalapi/countriesnow/dto"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/ratelimiter"
)

// Client はCountriesNow外部APIから国と都市を取得するLocationRepository実装です。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// ClientがLocationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.LocationRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// 呼び出しはcfg.RateLimit回/分に制限されます。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute),
	}
}

// Countries は国名・ISOコード・国旗画像URLの一覧を取得します。
func (c *Client) Countries(ctx context.Context) ([]entity.Country, error) {
	var body dto.CountriesResponse
	if err := c.do(ctx, http.MethodGet, "countries/flag/images", nil, &body); err != nil {
		return nil, err
	}

	countries := make([]entity.Country, 0, len(body.Data))
	for _, d := range body.Data {
		countries = append(countries, entity.Country{Name: d.Name, ISO2: d.Iso2, ISO3: d.Iso3, Flag: d.Flag})
	}
	return countries, nil
}

// Cities は指定された国の都市名一覧を取得します。国が存在しない場合はapperr.ErrNotFoundを返します。
func (c *Client) Cities(ctx context.Context, country string) ([]string, error) {
	var body dto.CitiesResponse
	if err := c.do(ctx, http.MethodPost, "countries/cities", dto.CitiesRequest{Country: country}, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return []string{}, nil
	}
	return body.Data, nil
}

// do はレート制限を守ってリクエストを送り、JSONレスポンスをoutにデコードします。
func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	// URLを生成
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + path

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// リクエストを実行
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("countriesnow %s: %w", path, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: location not found", apperr.ErrNotFound)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("countriesnow %s: http %d", path, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("countriesnow %s: decode: %w", path, err)
	}
	if env, ok := out.(interface{ Failed() (bool, string) }); ok {
		if failed, msg := env.Failed(); failed {
			return fmt.Errorf("countriesnow %s: %s", path, msg)
		}
	}
	return nil
}
