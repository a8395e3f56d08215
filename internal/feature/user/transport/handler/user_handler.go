// Package handler はuserフィーチャー（プロフィール）のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	authdto "erasmus_backend/internal/feature/auth/transport/dto"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/user/domain/entity"
	"erasmus_backend/internal/feature/user/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// UserUsecase はプロフィール操作のユースケースを定義します。
type UserUsecase interface {
	List(ctx context.Context) ([]authentity.User, error)
	Get(ctx context.Context, id string) (*authentity.User, error)
	Update(ctx context.Context, actor *authentity.User, id string, patch usecase.ProfilePatch) (*authentity.User, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
	ChangeRole(ctx context.Context, id string, role authentity.Role) (*authentity.User, error)
	SocialLinks(ctx context.Context, id string) ([]entity.SocialMediaLink, error)
	ReplaceSocialLinks(ctx context.Context, actor *authentity.User, id string, in []usecase.SocialLinkInput) ([]entity.SocialMediaLink, error)
	Languages(ctx context.Context, id string) ([]entity.UserLanguage, error)
	ReplaceLanguages(ctx context.Context, actor *authentity.User, id string, in []usecase.LanguageInput) ([]entity.UserLanguage, error)
}

// ChangeRoleRequest はロール変更リクエストです。
type ChangeRoleRequest struct {
	Role authentity.Role `json:"role" binding:"required,oneof=Administrator Banned User Host"`
}

// ReplaceSocialLinksRequest はソーシャルリンクの一括置換リクエストです。
type ReplaceSocialLinksRequest struct {
	Links []usecase.SocialLinkInput `json:"links" binding:"max=10,dive"`
}

// ReplaceLanguagesRequest は言語の一括置換リクエストです。
type ReplaceLanguagesRequest struct {
	Languages []usecase.LanguageInput `json:"languages" binding:"max=20,dive"`
}

// UserHandler はプロフィール関連のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// List はGET /users を処理します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponses(users))
}

// Get はGET /users/:id を処理します。
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponse(user))
}

// Update はPATCH /users/:id を処理します。
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var patch usecase.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BindError(c, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "profile updated", "user_id", user.ID, "actor_id", actor.ID)
	c.JSON(http.StatusOK, authdto.NewUserResponse(user))
}

// Delete はDELETE /users/:id を処理します。
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "user deleted", "user_id", c.Param("id"), "actor_id", actor.ID)
	c.Status(http.StatusNoContent)
}

// ChangeRole はPUT /users/:id/role を処理します（管理者専用）。
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	user, err := h.users.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "role changed", "user_id", user.ID, "role", user.Role.String())
	c.JSON(http.StatusOK, authdto.NewUserResponse(user))
}

// SocialLinks はGET /users/:id/social-links を処理します。
func (h *UserHandler) SocialLinks(c *gin.Context) {
	links, err := h.users.SocialLinks(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, links)
}

// ReplaceSocialLinks はPUT /users/:id/social-links を処理します。
func (h *UserHandler) ReplaceSocialLinks(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var req ReplaceSocialLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	links, err := h.users.ReplaceSocialLinks(c.Request.Context(), actor, c.Param("id"), req.Links)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, links)
}

// Languages はGET /users/:id/languages を処理します。
func (h *UserHandler) Languages(c *gin.Context) {
	langs, err := h.users.Languages(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, langs)
}

// ReplaceLanguages はPUT /users/:id/languages を処理します。
func (h *UserHandler) ReplaceLanguages(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var req ReplaceLanguagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	langs, err := h.users.ReplaceLanguages(c.Request.Context(), actor, c.Param("id"), req.Languages)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, langs)
}
