// Package httperr はエラー分類からHTTPレスポンスへの唯一の変換点です。
package httperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"erasmus_backend/internal/shared/apperr"
)

func init() {
	// バリデーションエラーのフィールド名をJSONタグの名前で報告する
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName はJSONタグの名前を返します。タグがなければ空文字を返し、validatorはフィールド名を使います。
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// ErrorResponse はすべてのエラーレスポンスの共通形式です。
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	msgInvalidCredential = "incorrect email or password"
	msgUnauthenticated   = "not authenticated"
	msgTokenExpired      = "token expired"
	msgTokenMalformed    = "invalid token"
	msgUserNotFound      = "user not found"
	msgInternal          = "internal server error"
)

// Status はerrをHTTPステータスと公開用メッセージに変換します。
// 分類に含まれないエラーは500と汎用メッセージになり、詳細は公開されません。
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredential):
		return http.StatusUnauthorized, msgInvalidCredential
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized, msgUnauthenticated
	case errors.Is(err, apperr.ErrTokenExpired):
		return http.StatusUnauthorized, msgTokenExpired
	case errors.Is(err, apperr.ErrTokenMalformed):
		return http.StatusUnauthorized, msgTokenMalformed
	case errors.Is(err, apperr.ErrUserNotFound):
		return http.StatusUnauthorized, msgUserNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, msgInternal
}

// Respond はerrをJSONで返してリクエストを中断します。
// 401の場合はBearer認証を要求するWWW-Authenticateヘッダーを付与します。
func Respond(c *gin.Context, err error) {
	code, msg := Status(err)
	if code == http.StatusInternalServerError {
		// 想定外のエラー：原因はログにのみ残す
		slog.ErrorContext(c.Request.Context(), "unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
		)
	}
	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Error: msg})
}

// BindError はリクエストのバインド失敗を422として返します。
func BindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "request validation failed",
		"error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	Respond(c, fmt.Errorf("%w: %s", apperr.ErrValidation, describe(err)))
}

// describe はバリデーションエラーを読みやすい文字列にします。
func describe(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return strings.Join(msgs, "; ")
	}
	return "malformed request body"
}

// fieldError は1件のFieldErrorを人が読めるメッセージに変換します。
func fieldError(fe validator.FieldError) string {
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid url"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// toSnake はGoのフィールド名（LastName、AccommodationID）をJSON風の名前（last_name、accommodation_id）に変換します。
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
