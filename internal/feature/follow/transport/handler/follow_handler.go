// Package handler はfollowフィーチャーのHTTPハンドラーとWebSocketエンドポイントを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	authdto "erasmus_backend/internal/feature/auth/transport/dto"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/follow/domain/entity"
	"erasmus_backend/internal/platform/http/httperr"
)

// FollowUsecase はフォロー操作のユースケースを定義します。
type FollowUsecase interface {
	Follow(ctx context.Context, actor *authentity.User, targetID string) (*entity.Follow, error)
	Unfollow(ctx context.Context, actor *authentity.User, targetID string) error
	Followers(ctx context.Context, userID string) ([]authentity.User, error)
	Following(ctx context.Context, userID string) ([]authentity.User, error)
	Counts(ctx context.Context, userID string) (entity.Counts, error)
}

// FollowHandler はフォロー関連のHTTPリクエストを処理します。
type FollowHandler struct {
	follows FollowUsecase
}

// NewFollowHandler はFollowHandlerの新しいインスタンスを生成します。
func NewFollowHandler(follows FollowUsecase) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Follow はPOST /users/:id/follow を処理します。
func (h *FollowHandler) Follow(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	f, err := h.follows.Follow(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "user followed", "follower_id", actor.ID, "following_id", f.FollowingID)
	c.JSON(http.StatusCreated, f)
}

// Unfollow はDELETE /users/:id/follow を処理します。フォローしていなくても204です。
func (h *FollowHandler) Unfollow(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Followers はGET /users/:id/followers を処理します。
func (h *FollowHandler) Followers(c *gin.Context) {
	users, err := h.follows.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponses(users))
}

// Following はGET /users/:id/following を処理します。
func (h *FollowHandler) Following(c *gin.Context) {
	users, err := h.follows.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponses(users))
}

// Counts はGET /users/:id/follow-counts を処理します。
func (h *FollowHandler) Counts(c *gin.Context) {
	counts, err := h.follows.Counts(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
