// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/platform/health"
)

// ReadinessChecker は依存先の疎通確認を行います。
type ReadinessChecker interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// HealthHandler は /healthz と /readyz を処理します。
type HealthHandler struct {
	checker ReadinessChecker
}

// NewHealthHandler はHealthHandlerを生成します。
func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Live はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// プロセスが動作していれば常に成功し、キャッシュを防止します。
func (h *HealthHandler) Live(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, h.checker.Liveness(c.Request.Context()))
	}
}

// Ready はデータベースとRedisへの疎通を確認する /readyz エンドポイントを処理します。
// いずれかの依存先が応答しない場合は503を返します。
func (h *HealthHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	result := h.checker.Readiness(c.Request.Context())
	status := http.StatusOK
	if !result.Up() {
		status = http.StatusServiceUnavailable
	}
	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, result)
}
