// Package handler はforumフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/forum/domain/entity"
	"erasmus_backend/internal/feature/forum/usecase"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/http/render"
)

// ForumUsecase はフォーラム操作のユースケースを定義します。
type ForumUsecase interface {
	List(ctx context.Context, country string) ([]entity.Forum, error)
	Get(ctx context.Context, id string) (*entity.Forum, error)
	Create(ctx context.Context, actor *authentity.User, in usecase.ForumInput) (*entity.Forum, error)
	Update(ctx context.Context, actor *authentity.User, id string, patch usecase.ForumPatch) (*entity.Forum, error)
	Delete(ctx context.Context, actor *authentity.User, id string) error
	Threads(ctx context.Context, forumID string) ([]entity.Thread, error)
	CreateThread(ctx context.Context, actor *authentity.User, forumID string, in usecase.ThreadInput) (*entity.Thread, error)
	GetThread(ctx context.Context, id string) (*entity.Thread, error)
	DeleteThread(ctx context.Context, actor *authentity.User, id string) error
	Messages(ctx context.Context, threadID string) ([]entity.Message, error)
	PostMessage(ctx context.Context, actor *authentity.User, threadID string, in usecase.MessageInput) (*entity.Message, error)
	Replies(ctx context.Context, messageID string) ([]entity.Message, error)
	DeleteMessage(ctx context.Context, actor *authentity.User, id string) error
}

// ForumHandler はフォーラム、スレッド、メッセージのHTTPリクエストを処理します。
type ForumHandler struct {
	forums ForumUsecase
}

// NewForumHandler はForumHandlerの新しいインスタンスを生成します。
func NewForumHandler(forums ForumUsecase) *ForumHandler {
	return &ForumHandler{forums: forums}
}

// List はGET /forums を処理します。?country= で国を指定できます。
func (h *ForumHandler) List(c *gin.Context) {
	items, err := h.forums.List(c.Request.Context(), c.Query("country"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// Get はGET /forums/:id を処理します。
func (h *ForumHandler) Get(c *gin.Context) {
	f, err := h.forums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Create はPOST /forums を処理します。
func (h *ForumHandler) Create(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.ForumInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	f, err := h.forums.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// Update はPATCH /forums/:id を処理します。
func (h *ForumHandler) Update(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var patch usecase.ForumPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httperr.BindError(c, err)
		return
	}
	f, err := h.forums.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Delete はDELETE /forums/:id を処理します。
func (h *ForumHandler) Delete(c *gin.Context) {
	h.remove(c, h.forums.Delete)
}

// Threads はGET /forums/:id/threads を処理します。
func (h *ForumHandler) Threads(c *gin.Context) {
	items, err := h.forums.Threads(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// CreateThread はPOST /forums/:id/threads を処理します。
func (h *ForumHandler) CreateThread(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.ThreadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	t, err := h.forums.CreateThread(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetThread はGET /threads/:id を処理します。
func (h *ForumHandler) GetThread(c *gin.Context) {
	t, err := h.forums.GetThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteThread はDELETE /threads/:id を処理します。
func (h *ForumHandler) DeleteThread(c *gin.Context) {
	h.remove(c, h.forums.DeleteThread)
}

// Messages はGET /threads/:id/messages を処理します。
func (h *ForumHandler) Messages(c *gin.Context) {
	items, err := h.forums.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// PostMessage はPOST /threads/:id/messages を処理します。
func (h *ForumHandler) PostMessage(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	var in usecase.MessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BindError(c, err)
		return
	}
	m, err := h.forums.PostMessage(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Replies はGET /messages/:id/replies を処理します。
func (h *ForumHandler) Replies(c *gin.Context) {
	items, err := h.forums.Replies(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	render.List(c, items)
}

// DeleteMessage はDELETE /messages/:id を処理します。
func (h *ForumHandler) DeleteMessage(c *gin.Context) {
	h.remove(c, h.forums.DeleteMessage)
}

// remove は削除系ハンドラーの共通処理です。
func (h *ForumHandler) remove(c *gin.Context, del func(ctx context.Context, actor *authentity.User, id string) error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), actor, c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
