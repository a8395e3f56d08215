package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erasmus_backend/internal/platform/health"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(dbErr error) *gin.Engine {
	checker := health.NewChecker(map[string]health.Pinger{
		"database": health.PingerFunc(func(context.Context) error { return dbErr }),
	}, slog.Default(), prometheus.NewRegistry())
	h := NewHealthHandler(checker)

	r := gin.New()
	r.GET("/healthz", h.Live)
	r.HEAD("/healthz", h.Live)
	r.OPTIONS("/healthz", h.Live)
	r.GET("/readyz", h.Ready)
	r.HEAD("/readyz", h.Ready)
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth_Live(t *testing.T) {
	t.Parallel()

	// 依存先が落ちていてもlivenessは成功する
	router := setupRouter(errors.New("db down"))

	w := serve(router, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = serve(router, http.MethodHead, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(router, http.MethodOptions, "/healthz")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealth_Ready(t *testing.T) {
	t.Parallel()

	t.Run("all dependencies up", func(t *testing.T) {
		w := serve(setupRouter(nil), http.MethodGet, "/readyz")

		assert.Equal(t, http.StatusOK, w.Code)
		var body health.HealthResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "up", body.Checks["database"].Status)
	})

	t.Run("database down", func(t *testing.T) {
		w := serve(setupRouter(errors.New("connection refused")), http.MethodGet, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("head", func(t *testing.T) {
		w := serve(setupRouter(errors.New("down")), http.MethodHead, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
