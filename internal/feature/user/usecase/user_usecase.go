// Package usecase はuserフィーチャー（プロフィール管理）のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/user/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// UserRepository はユーザーの永続化層を抽象化します。
type UserRepository interface {
	GetAll(ctx context.Context) ([]authentity.User, error)
	GetByID(ctx context.Context, id string) (*authentity.User, error)
	Update(ctx context.Context, user *authentity.User, fields repository.Fields) error
	Delete(ctx context.Context, user *authentity.User) error
}

// SocialLinkRepository はソーシャルリンクの永続化層を抽象化します。
type SocialLinkRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.SocialMediaLink, error)
	ReplaceForUser(ctx context.Context, userID string, links []entity.SocialMediaLink) ([]entity.SocialMediaLink, error)
}

// LanguageRepository は言語の永続化層を抽象化します。
type LanguageRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.UserLanguage, error)
	ReplaceForUser(ctx context.Context, userID string, langs []entity.UserLanguage) ([]entity.UserLanguage, error)
}

// PasswordHasher はパスワード変更時のハッシュ化を抽象化します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// ProfilePatch はプロフィールの部分更新です。nilのフィールドは変更しません。
// ロールはここでは変更できません（ChangeRoleを使用）。
type ProfilePatch struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	Mail           *string `json:"mail" binding:"omitempty,email"`
	Password       *string `json:"password" binding:"omitempty,min=8,max=72"`
	Biography      *string `json:"biography" binding:"omitempty,max=2000"`
	AvatarURL      *string `json:"avatar_url" binding:"omitempty,max=500"`
	School         *string `json:"school" binding:"omitempty,max=200"`
	Degree         *string `json:"degree" binding:"omitempty,max=200"`
	Nationality    *string `json:"nationality" binding:"omitempty,max=100"`
	City           *string `json:"city" binding:"omitempty,max=100"`
	ErasmusCountry *string `json:"erasmus_country" binding:"omitempty,max=100"`
	ErasmusDate    *string `json:"erasmus_date" binding:"omitempty,datetime=2006-01-02"`
	Phone          *string `json:"phone" binding:"omitempty,max=30"`
}

// SocialLinkInput はソーシャルリンク1件の入力値です。
type SocialLinkInput struct {
	SocialMedia entity.SocialMedia `json:"social_media" binding:"required,oneof=Facebook Instagram Twitter LinkedIn TikTok YouTube Other"`
	URL         string             `json:"url" binding:"required,url,max=500"`
}

// LanguageInput は言語1件の入力値です。
type LanguageInput struct {
	Language string               `json:"language" binding:"required,max=50"`
	Level    entity.LanguageLevel `json:"level" binding:"required,oneof=A1 A2 B1 B2 C1 C2 Native"`
}

// userUsecase はプロフィール管理のビジネスロジックを実装します。
type userUsecase struct {
	users     UserRepository
	links     SocialLinkRepository
	languages LanguageRepository
	hasher    PasswordHasher
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, links SocialLinkRepository, languages LanguageRepository, hasher PasswordHasher) *userUsecase {
	return &userUsecase{users: users, links: links, languages: languages, hasher: hasher}
}

// List はすべてのユーザーを返します。
func (u *userUsecase) List(ctx context.Context) ([]authentity.User, error) {
	return u.users.GetAll(ctx)
}

// Get はIDでユーザーを取得します。
func (u *userUsecase) Get(ctx context.Context, id string) (*authentity.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "user")
	}
	return user, nil
}

// Update は本人または管理者によるプロフィールの部分更新を行います。
func (u *userUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch ProfilePatch) (*authentity.User, error) {
	user, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fields := repository.Fields{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", apperr.ErrValidation)
		}
		fields["name"] = name
	}
	if patch.Mail != nil {
		fields["mail"] = strings.ToLower(strings.TrimSpace(*patch.Mail))
	}
	if patch.Password != nil {
		hashed, err := u.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	repository.SetIf(fields, "last_name", patch.LastName)
	repository.SetIf(fields, "biography", patch.Biography)
	repository.SetIf(fields, "avatar_url", patch.AvatarURL)
	repository.SetIf(fields, "school", patch.School)
	repository.SetIf(fields, "degree", patch.Degree)
	repository.SetIf(fields, "nationality", patch.Nationality)
	repository.SetIf(fields, "city", patch.City)
	repository.SetIf(fields, "erasmus_country", patch.ErasmusCountry)
	repository.SetIf(fields, "erasmus_date", patch.ErasmusDate)
	repository.SetIf(fields, "phone", patch.Phone)

	if err := u.users.Update(ctx, user, fields); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return nil, apperr.NotFound(err, "user")
	}
	return user, nil
}

// Delete は本人または管理者がユーザーを削除します。関連レコードはFKのカスケードで削除されます。
func (u *userUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	user, err := u.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.users.Delete(ctx, user)
}

// ChangeRole はユーザーのロールを変更します。呼び出し元の管理者権限はルーターで確認済みです。
func (u *userUsecase) ChangeRole(ctx context.Context, id string, role authentity.Role) (*authentity.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, role)
	}
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.users.Update(ctx, user, repository.Fields{"role": role}); err != nil {
		return nil, apperr.NotFound(err, "user")
	}
	return user, nil
}

// SocialLinks はユーザーのソーシャルリンクを返します。
func (u *userUsecase) SocialLinks(ctx context.Context, id string) ([]entity.SocialMediaLink, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.links.ListByUser(ctx, id)
}

// ReplaceSocialLinks はユーザーのソーシャルリンクをinの内容で置き換えます。
func (u *userUsecase) ReplaceSocialLinks(ctx context.Context, actor *authentity.User, id string, in []SocialLinkInput) ([]entity.SocialMediaLink, error) {
	if _, err := u.manageable(ctx, actor, id); err != nil {
		return nil, err
	}
	links := make([]entity.SocialMediaLink, 0, len(in))
	for _, l := range in {
		links = append(links, entity.SocialMediaLink{SocialMedia: l.SocialMedia, URL: strings.TrimSpace(l.URL)})
	}
	return u.links.ReplaceForUser(ctx, id, links)
}

// Languages はユーザーの話せる言語を返します。
func (u *userUsecase) Languages(ctx context.Context, id string) ([]entity.UserLanguage, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.languages.ListByUser(ctx, id)
}

// ReplaceLanguages はユーザーの言語をinの内容で置き換えます。同じ言語を重複して指定することはできません。
func (u *userUsecase) ReplaceLanguages(ctx context.Context, actor *authentity.User, id string, in []LanguageInput) ([]entity.UserLanguage, error) {
	if _, err := u.manageable(ctx, actor, id); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(in))
	langs := make([]entity.UserLanguage, 0, len(in))
	for _, l := range in {
		name := strings.TrimSpace(l.Language)
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: language %q listed more than once", apperr.ErrValidation, name)
		}
		seen[key] = struct{}{}
		langs = append(langs, entity.UserLanguage{Language: name, Level: l.Level})
	}
	return u.languages.ReplaceForUser(ctx, id, langs)
}

// manageable は対象ユーザーを取得し、actorが本人または管理者であることを確認します。
func (u *userUsecase) manageable(ctx context.Context, actor *authentity.User, id string) (*authentity.User, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(user.ID) {
		return nil, fmt.Errorf("%w: you can only modify your own profile", apperr.ErrForbidden)
	}
	return user, nil
}
