// Package handler はreservationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/reservation/domain/entity"
	"erasmus_backend/internal/feature/reservation/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// ReservationUsecase は予約操作のユースケースを定義します。
type ReservationUsecase interface {
	Create(ctx context.Context, actor *authentity.User, in usecase.CreateInput) (*entity.Reservation, error)
	Get(ctx context.Context, actor *authentity.User, id string) (*entity.Reservation, error)
	ListByUser(ctx context.Context, actor *authentity.User, userID string) ([]entity.Reservation, error)
	ChangeStatus(ctx context.Context, actor *authentity.User, id string, status entity.Status) (*entity.Reservation, error)
}

// StatusRequest は予約状態の変更リクエストです。
type StatusRequest struct {
	Status entity.Status `json:"status" binding:"required,oneof=Accepted Cancelled"`
}

// ReservationHandler は予約関連のHTTPリクエストを処理します。
type ReservationHandler struct {
	reservations ReservationUsecase
}

// NewReservationHandler はReservationHandlerの新しいインスタンスを生成します。
func NewReservationHandler(reservations ReservationUsecase) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Create はPOST /reservations を処理します。
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	r, err := h.reservations.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Get はGET /reservations/:id を処理します。
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	r, err := h.reservations.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListByUser はGET /users/:id/reservations を処理します。
func (h *ReservationHandler) ListByUser(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	items, err := h.reservations.ListByUser(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// ChangeStatus はPUT /reservations/:id/status を処理します。
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	r, err := h.reservations.ChangeStatus(c.Request.Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
