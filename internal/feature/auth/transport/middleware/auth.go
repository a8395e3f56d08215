// Package middleware はBearerトークン認証とロールによる認可のginミドルウェアを提供します。
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/feature/auth/domain/entity"
	jwtmw "erasmus_backend/internal/platform/jwt"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/metrics"
	"erasmus_backend/internal/shared/apperr"
)

// ContextUserKey は認証済みユーザーをgin.Contextに格納するキーです。
const ContextUserKey = "auth.user"

// TokenVerifier はトークン検証のインターフェースです。
type TokenVerifier interface {
	Verify(token string) (jwtmw.Subject, error)
}

// UserResolver はトークンのsubjectをユーザーに解決します。
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Authenticate はAuthorizationヘッダーからBearerトークンを取り出して検証し、
// subjectをユーザーに解決してコンテキストに格納します。
// リクエストごとにちょうど1回だけユーザーを検索し、キャッシュはしません。
func Authenticate(verifier TokenVerifier, users UserResolver) gin.HandlerFunc {
	return authenticate(verifier, users, func(c *gin.Context) (string, bool) {
		return bearerToken(c.GetHeader("Authorization"))
	})
}

// AuthenticateWebSocket はAuthenticateと同じ検証を行いますが、ブラウザのWebSocketは
// ヘッダーを設定できないため、Authorizationヘッダーがなければクエリの?token=を使用します。
func AuthenticateWebSocket(verifier TokenVerifier, users UserResolver) gin.HandlerFunc {
	return authenticate(verifier, users, func(c *gin.Context) (string, bool) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			return token, true
		}
		token := strings.TrimSpace(c.Query("token"))
		return token, token != ""
	})
}

func authenticate(verifier TokenVerifier, users UserResolver, extract func(*gin.Context) (string, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extract(c)
		if !ok {
			reject(c, "missing_token", apperr.ErrUnauthenticated)
			return
		}

		subject, err := verifier.Verify(token)
		if err != nil {
			reason := "malformed_token"
			if errors.Is(err, apperr.ErrTokenExpired) {
				reason = "expired_token"
			}
			reject(c, reason, err)
			return
		}

		user, err := users.GetByID(c.Request.Context(), subject.ID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				// 署名が正しくても削除済みユーザーは認証しない
				reject(c, "user_not_found", apperr.ErrUserNotFound)
				return
			}
			httperr.Respond(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole はユーザーのロールがrolesのいずれかと完全一致する場合のみ通過させます。
// ロール間の継承はありません。Authenticateの後に配置してください。
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			reject(c, "missing_identity", apperr.ErrUnauthenticated)
			return
		}
		if !user.HasRole(roles...) {
			metrics.AuthFailuresTotal.WithLabelValues("forbidden_role").Inc()
			slog.WarnContext(c.Request.Context(), "role not permitted",
				"user_id", user.ID, "role", user.Role, "path", c.FullPath())
			httperr.Respond(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}

// CurrentUser は認証済みユーザーを返します。
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}

// Actor は認証済みユーザーを返します。存在しない場合は401を書き込んでfalseを返します。
func Actor(c *gin.Context) (*entity.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		httperr.Respond(c, apperr.ErrUnauthenticated)
	}
	return user, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(c *gin.Context, reason string, err error) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	slog.WarnContext(c.Request.Context(), "authentication failed",
		"reason", reason, "path", c.FullPath(), "remote_addr", c.ClientIP())
	httperr.Respond(c, err)
}
