// Package dto はauthフィーチャーのリクエスト/レスポンス形式を定義します。
package dto

import (
	"time"

	"erasmus_backend/internal/feature/auth/domain/entity"
)

// TokenTypeBearer はすべてのトークンレスポンスのtoken_typeです。
const TokenTypeBearer = "bearer"

// TokenForm は POST /token のフォーム入力（OAuth2パスワードフロー形式）です。
type TokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginRequest は POST /auth/login のJSON入力です。
// 形式の誤ったメールアドレスも401として扱うため、emailタグは付けません。
type LoginRequest struct {
	Mail     string `json:"mail" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest は POST /auth/register のJSON入力です。
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	LastName string `json:"last_name" binding:"max=100"`
	Mail     string `json:"mail" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"max=30"`
}

// TokenResponse はアクセストークンのレスポンスです。
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResponse はトークンに加えて公開用のユーザー情報を返します。
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

// MeResponse は GET /me の簡易プロジェクションです。
type MeResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// MessageResponse は単純なメッセージを返します。
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse は公開しても安全なユーザーのプロジェクションです。パスワードハッシュは含みません。
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	LastName       string    `json:"last_name"`
	Mail           string    `json:"mail"`
	Role           string    `json:"role"`
	Biography      string    `json:"biography"`
	AvatarURL      string    `json:"avatar_url"`
	School         string    `json:"school"`
	Degree         string    `json:"degree"`
	Nationality    string    `json:"nationality"`
	City           string    `json:"city"`
	ErasmusCountry string    `json:"erasmus_country"`
	ErasmusDate    string    `json:"erasmus_date"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUserResponse はエンティティからUserResponseを生成します。
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		LastName:       u.LastName,
		Mail:           u.Mail,
		Role:           u.Role.String(),
		Biography:      u.Biography,
		AvatarURL:      u.AvatarURL,
		School:         u.School,
		Degree:         u.Degree,
		Nationality:    u.Nationality,
		City:           u.City,
		ErasmusCountry: u.ErasmusCountry,
		ErasmusDate:    u.ErasmusDate,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt,
	}
}

// NewUserResponses はユーザー一覧をレスポンスに変換します。
func NewUserResponses(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
