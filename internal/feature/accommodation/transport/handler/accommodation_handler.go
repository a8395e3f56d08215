// Package handler はaccommodationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/feature/accommodation/domain/entity"
	"erasmus_backend/internal/feature/accommodation/usecase"
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
	"erasmus_backend/internal/platform/http/upload"
)

// AccommodationUsecase は宿泊施設操作のユースケースを定義します。
type AccommodationUsecase interface {
	List(ctx context.Context, query string) ([]entity.Accommodation, error)
	Get(ctx context.Context, id string) (*entity.Accommodation, error)
	Create(ctx context.Context, actor *authentity.User, in usecase.AccommodationInput) (*entity.Accommodation, error)
	Update(ctx context.Context, actor *authentity.User, id string, patch usecase.AccommodationPatch) (*entity.Accommodation, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Accommodation, error)
	Countries(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, country string) ([]string, error)
	UnavailableDates(ctx context.Context, id string) ([]entity.DateRange, error)
	Images(ctx context.Context, id string) ([]entity.Image, error)
	AddImage(ctx context.Context, actor *authentity.User, id string, data []byte) (*entity.Image, error)
}

// AccommodationHandler は宿泊施設関連のHTTPリクエストを処理します。
type AccommodationHandler struct {
	accommodations AccommodationUsecase
}

// NewAccommodationHandler はAccommodationHandlerの新しいインスタンスを生成します。
func NewAccommodationHandler(accommodations AccommodationUsecase) *AccommodationHandler {
	return &AccommodationHandler{accommodations: accommodations}
}

// List はGET /accommodations を処理します。?q= でタイトルのあいまい検索を行います。
func (h *AccommodationHandler) List(c *gin.Context) {
	items, err := h.accommodations.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Get はGET /accommodations/:id を処理します。
func (h *AccommodationHandler) Get(c *gin.Context) {
	a, err := h.accommodations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Create はPOST /accommodations を処理します。
func (h *AccommodationHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.AccommodationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	a, err := h.accommodations.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "accommodation created", "accommodation_id", a.ID, "owner_id", a.OwnerID)
	c.JSON(http.StatusCreated, a)
}

// Update はPATCH /accommodations/:id を処理します。
func (h *AccommodationHandler) Update(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var patch usecase.AccommodationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BindError(c, err)
		return
	}
	a, err := h.accommodations.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete はDELETE /accommodations/:id を処理します。
func (h *AccommodationHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.accommodations.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "accommodation deleted", "accommodation_id", c.Param("id"), "actor_id", actor.ID)
	c.Status(http.StatusNoContent)
}

// ListByOwner はGET /users/:id/accommodations を処理します。
func (h *AccommodationHandler) ListByOwner(c *gin.Context) {
	items, err := h.accommodations.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Countries はGET /accommodations/countries を処理します。
func (h *AccommodationHandler) Countries(c *gin.Context) {
	countries, err := h.accommodations.Countries(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, countries)
}

// Cities はGET /accommodations/countries/:country/cities を処理します。
func (h *AccommodationHandler) Cities(c *gin.Context) {
	cities, err := h.accommodations.Cities(c.Request.Context(), c.Param("country"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, cities)
}

// UnavailableDates はGET /accommodations/:id/unavailable-dates を処理します。
func (h *AccommodationHandler) UnavailableDates(c *gin.Context) {
	ranges, err := h.accommodations.UnavailableDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, ranges)
}

// Images はGET /accommodations/:id/images を処理します。
func (h *AccommodationHandler) Images(c *gin.Context) {
	images, err := h.accommodations.Images(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, images)
}

// AddImage はPOST /accommodations/:id/images（multipartのfile）を処理します。
func (h *AccommodationHandler) AddImage(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	data, err := upload.ReadImage(c, upload.DefaultField)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	img, err := h.accommodations.AddImage(c.Request.Context(), actor, c.Param("id"), data)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}
