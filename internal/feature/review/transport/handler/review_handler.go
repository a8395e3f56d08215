// Package handler はreviewフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/review/domain/entity"
	"erasmus_backend/internal/feature/review/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// ReviewUsecase はレビュー操作のユースケースを定義します。
type ReviewUsecase interface {
	Create(ctx context.Context, actor *authentity.User, in usecase.CreateInput) (*entity.Review, error)
	ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Review, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
}

// ReviewHandler はレビュー関連のHTTPリクエストを処理します。
type ReviewHandler struct {
	reviews ReviewUsecase
}

// NewReviewHandler はReviewHandlerの新しいインスタンスを生成します。
func NewReviewHandler(reviews ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create はPOST /reviews を処理します。
func (h *ReviewHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	r, err := h.reviews.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "review created", "review_id", r.ID, "reservation_id", r.ReservationID)
	c.JSON(http.StatusCreated, r)
}

// ListByAccommodation はGET /accommodations/:id/reviews を処理します。
func (h *ReviewHandler) ListByAccommodation(c *gin.Context) {
	items, err := h.reviews.ListByAccommodation(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// ListByUser はGET /users/:id/reviews を処理します。
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	items, err := h.reviews.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Delete はDELETE /reviews/:id を処理します。
func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
