// Package handler はrecommendationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/recommendation/domain/entity"
	"erasmus_backend/internal/feature/recommendation/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
	"erasmus_backend/internal/platform/http/upload"
)

// RecommendationUsecase はおすすめ操作のユースケースを定義します。
type RecommendationUsecase interface {
	List(ctx context.Context, query string) ([]entity.Recommendation, error)
	Get(ctx context.Context, id string) (*entity.Recommendation, error)
	Create(ctx context.Context, actor *authentity.User, in usecase.RecommendationInput) (*entity.Recommendation, error)
	Update(ctx context.Context, actor *authentity.User, id string, patch usecase.RecommendationPatch) (*entity.Recommendation, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
	ListByUser(ctx context.Context, userID string) ([]entity.Recommendation, error)
	Images(ctx context.Context, id string) ([]entity.Image, error)
	AddImage(ctx context.Context, actor *authentity.User, id string, data []byte) (*entity.Image, error)
}

// RecommendationHandler はおすすめ関連のHTTPリクエストを処理します。
type RecommendationHandler struct {
	recommendations RecommendationUsecase
}

// NewRecommendationHandler はRecommendationHandlerの新しいインスタンスを生成します。
func NewRecommendationHandler(recommendations RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// List はGET /recommendations を処理します。?q= でタイトルと説明のあいまい検索を行います。
func (h *RecommendationHandler) List(c *gin.Context) {
	items, err := h.recommendations.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Get はGET /recommendations/:id を処理します。
func (h *RecommendationHandler) Get(c *gin.Context) {
	r, err := h.recommendations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create はPOST /recommendations を処理します。
func (h *RecommendationHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.RecommendationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	r, err := h.recommendations.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Update はPATCH /recommendations/:id を処理します。
func (h *RecommendationHandler) Update(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var patch usecase.RecommendationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BindError(c, err)
		return
	}
	r, err := h.recommendations.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete はDELETE /recommendations/:id を処理します。
func (h *RecommendationHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.recommendations.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByUser はGET /users/:id/recommendations を処理します。
func (h *RecommendationHandler) ListByUser(c *gin.Context) {
	items, err := h.recommendations.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Images はGET /recommendations/:id/images を処理します。
func (h *RecommendationHandler) Images(c *gin.Context) {
	items, err := h.recommendations.Images(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// AddImage はPOST /recommendations/:id/images（multipartのfile）を処理します。
func (h *RecommendationHandler) AddImage(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	data, err := upload.ReadImage(c, upload.DefaultField)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	img, err := h.recommendations.AddImage(c.Request.Context(), actor, c.Param("id"), data)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
