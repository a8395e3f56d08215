// Package handler はhostフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	authdto "erasmus_backend/internal/feature/auth/transport/dto"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/host/domain/entity"
	"erasmus_backend/internal/feature/host/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// HostUsecase はホスト申請操作のユースケースを定義します。
type HostUsecase interface {
	Submit(ctx context.Context, actor *authentity.User, in usecase.RequestInput) (*entity.HostRequest, error)
	List(ctx context.Context, actor *authentity.User) ([]entity.HostRequest, error)
	Get(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error)
	Approve(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error)
	Reject(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error)
	Hosts(ctx context.Context) ([]entity.HostRequest, error)
	Specialities(ctx context.Context) ([]entity.Speciality, error)
	CreateSpeciality(ctx context.Context, actor *authentity.User, in usecase.SpecialityInput) (*entity.Speciality, error)
}

// HostResponse は承認済みホストの公開プロジェクションです。
type HostResponse struct {
	User         authdto.UserResponse `json:"user"`
	HostSince    *time.Time           `json:"host_since"`
	Specialities []entity.Speciality  `json:"specialities"`
}

// HostHandler はホスト関連のHTTPリクエストを処理します。
type HostHandler struct {
	hosts HostUsecase
}

// NewHostHandler はHostHandlerの新しいインスタンスを生成します。
func NewHostHandler(hosts HostUsecase) *HostHandler {
	return &HostHandler{hosts: hosts}
}

// Submit はPOST /hosts/requests を処理します。
func (h *HostHandler) Submit(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	req, err := h.hosts.Submit(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// List はGET /hosts/requests を処理します（管理者のみ）。
func (h *HostHandler) List(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	items, err := h.hosts.List(c.Request.Context(), actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Get はGET /hosts/requests/:id を処理します。
func (h *HostHandler) Get(c *gin.Context) {
	h.review(c, h.hosts.Get)
}

// Approve はPOST /hosts/requests/:id/approve を処理します。
func (h *HostHandler) Approve(c *gin.Context) {
	h.review(c, h.hosts.Approve)
}

// Reject はPOST /hosts/requests/:id/reject を処理します。
func (h *HostHandler) Reject(c *gin.Context) {
	h.review(c, h.hosts.Reject)
}

// Hosts はGET /hosts を処理します。
func (h *HostHandler) Hosts(c *gin.Context) {
	items, err := h.hosts.Hosts(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	out := make([]HostResponse, 0, len(items))
	for _, req := range items {
		if req.User == nil {
			continue
		}
		specs := req.Specialities
		if specs == nil {
			specs = []entity.Speciality{}
		}
		out = append(out, HostResponse{User: authdto.NewUserResponse(req.User), HostSince: req.HostSince, Specialities: specs})
	}
	c.JSON(http.StatusOK, out)
}

// Specialities はGET /specialities を処理します。
func (h *HostHandler) Specialities(c *gin.Context) {
	items, err := h.hosts.Specialities(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// CreateSpeciality はPOST /specialities を処理します（管理者のみ）。
func (h *HostHandler) CreateSpeciality(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.SpecialityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	s, err := h.hosts.CreateSpeciality(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// review は:idの申請を対象にする操作の共通処理です。
func (h *HostHandler) review(c *gin.Context, op func(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error)) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	req, err := op(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
