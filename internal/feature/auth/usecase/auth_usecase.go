// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/platform/password"
	"erasmus_backend/internal/shared/apperr"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、apperr.ErrConflictを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、apperr.ErrNotFoundを返します。
	FindByEmail(ctx context.Context, mail string) (*entity.User, error)
}

// PasswordHasher はパスワードのハッシュ化と検証を抽象化します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer はアクセストークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// Issue は指定されたsubjectとroleを埋め込んだ署名済みトークンを生成します。
	Issue(subjectID, role string) (string, error)
}

// LoginResult はログイン成功時の結果です。
type LoginResult struct {
	AccessToken string
	User        *entity.User
}

// RegisterInput は新規登録の入力値です。
type RegisterInput struct {
	Name     string
	LastName string
	Mail     string
	Password string
	Phone    string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(pw string) error {
	if len(pw) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", apperr.ErrValidation, minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザー（ロールUser）を登録します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	// パスワード強度を検証
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		LastName: strings.TrimSpace(in.LastName),
		Mail:     strings.ToLower(strings.TrimSpace(in.Mail)),
		Password: hashed,
		Phone:    in.Phone,
		Role:     entity.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にアクセストークンとユーザーを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
// 「ユーザーが存在しない」と「パスワード不一致」は同じapperr.ErrInvalidCredentialになります。
func (u *authUsecase) Login(ctx context.Context, mail, plaintext string) (*LoginResult, error) {
	// メールアドレスでユーザーを検索
	user, err := u.users.FindByEmail(ctx, mail)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		// ストレージ障害は認証失敗として扱わない
		return nil, err
	}

	// ユーザーが存在しない場合はダミーハッシュと比較する
	digest := password.DummyHash
	if user != nil {
		digest = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	ok := u.hasher.Verify(plaintext, digest)

	if user == nil || !ok {
		return nil, apperr.ErrInvalidCredential
	}

	// 注入されたTokenIssuerでトークンを生成
	token, err := u.tokens.Issue(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{AccessToken: token, User: user}, nil
}
