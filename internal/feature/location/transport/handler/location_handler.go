// Package handler はlocationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/feature/location/domain/entity"
	"erasmus_backend/internal/platform/http/httperr"
)

// LocationUsecase は国・都市検索のユースケースを定義します。
type LocationUsecase interface {
	Countries(ctx context.Context, q string) ([]entity.Country, error)
	Cities(ctx context.Context, country, q string) ([]string, error)
}

// LocationHandler は国・都市一覧のHTTPリクエストを処理します。
type LocationHandler struct {
	uc LocationUsecase
}

// NewLocationHandler はLocationHandlerの新しいインスタンスを生成します。
func NewLocationHandler(uc LocationUsecase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Countries は GET /locations/countries?q= を処理します。
func (h *LocationHandler) Countries(c *gin.Context) {
	countries, err := h.uc.Countries(c.Request.Context(), c.Query("q"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// Cities は GET /locations/countries/:country/cities?q= を処理します。
func (h *LocationHandler) Cities(c *gin.Context) {
	cities, err := h.uc.Cities(c.Request.Context(), c.Param("country"), c.Query("q"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}
