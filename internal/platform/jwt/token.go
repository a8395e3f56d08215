// Package jwtmw はHS256で署名されたステートレスなアクセストークンの発行と検証を提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"erasmus_backend/internal/shared/apperr"
)

// DefaultTTL はアクセストークンのデフォルト有効期間です。
const DefaultTTL = 60 * time.Minute

// Claims はアクセストークンに埋め込むクレームです（sub, role, iat, exp）。
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Subject は検証済みトークンから取り出したユーザー識別子とロールです。
type Subject struct {
	ID   string
	Role string
}

// TokenService はアクセストークンを発行・検証します。
// 署名鍵は起動時に一度だけ設定され、以後は読み取り専用です。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService は指定されたシークレットと有効期間でTokenServiceを生成します。
// ttlが0以下の場合はDefaultTTLを使用します。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はデフォルトの有効期間でトークンを発行します。
func (s *TokenService) Issue(subjectID, role string) (string, error) {
	return s.IssueWithTTL(subjectID, role, s.ttl)
}

// IssueWithTTL は指定の有効期間でsubjectとroleを埋め込んだ署名済みトークンを発行します。
func (s *TokenService) IssueWithTTL(subjectID, role string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、subjectとroleを返します。
// 期限切れはapperr.ErrTokenExpired、それ以外の不正はすべてapperr.ErrTokenMalformedです。
func (s *TokenService) Verify(tokenString string) (Subject, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			// HMAC以外の署名方式（none など）は拒否する
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, apperr.ErrTokenExpired
		}
		return Subject{}, fmt.Errorf("%w: %v", apperr.ErrTokenMalformed, err)
	}

	if claims.Subject == "" || claims.Role == "" {
		return Subject{}, fmt.Errorf("%w: missing required claims", apperr.ErrTokenMalformed)
	}

	return Subject{ID: claims.Subject, Role: claims.Role}, nil
}

// TTL は発行時に使用される有効期間を返します。
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
