// Package requestid はリクエストごとの相関IDをcontext.Contextで受け渡します。
package requestid

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header はリクエストIDを伝搬するHTTPヘッダーです。
const Header = "X-Request-ID"

type ctxKey struct{}

// New はUUID v4のリクエストIDを生成します。
func New() string {
	return uuid.NewString()
}

// WithRequestID はリクエストIDを付与したctxのコピーを返します。
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext はctxからリクエストIDを取り出します。なければ""を返します。
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware はリクエストIDをリクエストのコンテキストとレスポンスヘッダーに設定します。
// 受信したX-Request-IDはそのまま使います。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = New()
		}

		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), id))
		c.Header(Header, id)
		c.Next()
	}
}
