// Package handler はeventフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	authdto "erasmus_backend/internal/feature/auth/transport/dto"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/event/domain/entity"
	"erasmus_backend/internal/feature/event/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// EventUsecase はイベント操作のユースケースを定義します。
type EventUsecase interface {
	List(ctx context.Context, viewer *authentity.User) ([]usecase.EventView, error)
	Get(ctx context.Context, viewer *authentity.User, id string) (*usecase.EventView, error)
	Create(ctx context.Context, actor *authentity.User, in usecase.EventInput) (*entity.Event, error)
	Update(ctx context.Context, actor *authentity.User, id string, patch usecase.EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
	Countries(ctx context.Context) ([]string, error)
	ListByCreator(ctx context.Context, viewer *authentity.User, userID string) ([]usecase.EventView, error)
	ListParticipating(ctx context.Context, viewer *authentity.User, userID string) ([]usecase.EventView, error)
	Join(ctx context.Context, actor *authentity.User, id string) (bool, error)
	Leave(ctx context.Context, actor *authentity.User, id string) (bool, error)
	Participants(ctx context.Context, id string) ([]authentity.User, error)
}

// JoinResponse はPOST /events/:id/join のレスポンスです。
type JoinResponse struct {
	Joined bool `json:"joined"`
}

// LeaveResponse はPOST /events/:id/leave のレスポンスです。
type LeaveResponse struct {
	Left bool `json:"left"`
}

// EventHandler はイベント関連のHTTPリクエストを処理します。
type EventHandler struct {
	events EventUsecase
}

// NewEventHandler はEventHandlerの新しいインスタンスを生成します。
func NewEventHandler(events EventUsecase) *EventHandler {
	return &EventHandler{events: events}
}

// List はGET /events を処理します。
func (h *EventHandler) List(c *gin.Context) {
	items, err := h.events.List(c.Request.Context(), viewer(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Get はGET /events/:id を処理します。
func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.events.Get(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Create はPOST /events を処理します。
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	ev, err := h.events.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update はPATCH /events/:id を処理します。
func (h *EventHandler) Update(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var patch usecase.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BindError(c, err)
		return
	}
	ev, err := h.events.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Delete はDELETE /events/:id を処理します。
func (h *EventHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Countries はGET /events/countries を処理します。
func (h *EventHandler) Countries(c *gin.Context) {
	items, err := h.events.Countries(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// ListByCreator はGET /users/:id/events を処理します。
func (h *EventHandler) ListByCreator(c *gin.Context) {
	items, err := h.events.ListByCreator(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// ListParticipating はGET /users/:id/participating-events を処理します。
func (h *EventHandler) ListParticipating(c *gin.Context) {
	items, err := h.events.ListParticipating(c.Request.Context(), viewer(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Join はPOST /events/:id/join を処理します。既に参加済みでも200で{"joined": false}を返します。
func (h *EventHandler) Join(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	joined, err := h.events.Join(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, JoinResponse{Joined: joined})
}

// Leave はPOST /events/:id/leave を処理します。
func (h *EventHandler) Leave(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	left, err := h.events.Leave(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, LeaveResponse{Left: left})
}

// Participants はGET /events/:id/participants を処理します。
func (h *EventHandler) Participants(c *gin.Context) {
	users, err := h.events.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponses(users))
}

// viewer は認証済みユーザーを返します。未設定ならnilです。
func viewer(c *gin.Context) *authentity.User {
	u, _ := middleware.CurrentUser(c)
	return u
}
