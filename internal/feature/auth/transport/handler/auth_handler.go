// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/dto"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/auth/usecase"
	"erasmus_backend/internal/platform/http/httperr"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーをロールUserで登録します。
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	// Login はユーザーを認証し、成功時にアクセストークンとユーザーを返します。
	Login(ctx context.Context, mail, password string) (*usecase.LoginResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Token はOAuth2パスワードフロー形式（フォームのusername/password）でトークンを発行します。
func (h *AuthHandler) Token(c *gin.Context) {
	var form dto.TokenForm
	if err := c.ShouldBind(&form); err != nil {
		httperr.BindError(c, err)
		return
	}
	res, ok := h.login(c, form.Username, form.Password)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: res.AccessToken, TokenType: dto.TokenTypeBearer})
}

// Login はJSONのmail/passwordでログインし、トークンと公開用のユーザー情報を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	res, ok := h.login(c, req.Mail, req.Password)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		User:        dto.NewUserResponse(res.User),
		AccessToken: res.AccessToken,
		TokenType:   dto.TokenTypeBearer,
	})
}

// login はTokenとLoginで共通の認証処理です。失敗時はレスポンスを書き込みfalseを返します。
func (h *AuthHandler) login(c *gin.Context, mail, password string) (*usecase.LoginResult, bool) {
	res, err := h.auth.Login(c.Request.Context(), mail, password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、ユーザー不在とパスワード不一致は同じレスポンスになる
		slog.WarnContext(c.Request.Context(), "login failed", "error", err, "remote_addr", c.ClientIP())
		httperr.Respond(c, err)
		return nil, false
	}
	slog.InfoContext(c.Request.Context(), "user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	return res, true
}

// Register は新規ユーザー登録を処理します。成功時は201とユーザー情報を返します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Mail:     req.Mail,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		slog.WarnContext(c.Request.Context(), "register failed", "error", err, "remote_addr", c.ClientIP())
		httperr.Respond(c, err)
		return
	}
	slog.InfoContext(c.Request.Context(), "user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Me は認証済みユーザーの簡易プロジェクションを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.Actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.MeResponse{UserID: user.ID, Email: user.Mail, Role: user.Role.String()})
}

// AuthMe は認証済みユーザーの公開用プロジェクション全体を返します。
func (h *AuthHandler) AuthMe(c *gin.Context) {
	user, ok := middleware.Actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// AdminOnly はAdministrator専用エンドポイントです。ロールの確認はRequireRoleが行います。
func (h *AuthHandler) AdminOnly(c *gin.Context) {
	user, ok := middleware.Actor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Welcome, admin %s!", user.Mail)})
}
