// Package seed は初期データ（管理者アカウントとホストの専門分野）を投入します。
// 何度実行しても同じ結果になります。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	hostentity "erasmus_backend/internal/feature/host/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

const (
	AdminMail     = "admin@example.com"
	AdminPassword = "admin123"
	adminName     = "Admin"
)

// DefaultSpecialities はホスト申請で選べる専門分野の初期値です。
var DefaultSpecialities = []string{
	"Student housing",
	"Language exchange",
	"City tours",
	"Cultural events",
	"Local cuisine",
}

// UserRepository は管理者アカウントの検索・作成・昇格に使います。
type UserRepository interface {
	FindByEmail(ctx context.Context, mail string) (*authentity.User, error)
	Create(ctx context.Context, u *authentity.User) error
	Update(ctx context.Context, u *authentity.User, fields repository.Fields) error
}

// SpecialityRepository は専門分野の存在確認と作成に使います。
type SpecialityRepository interface {
	Exists(ctx context.Context, conditions repository.Fields) (bool, error)
	Create(ctx context.Context, s *hostentity.Speciality) error
}

// PasswordHasher は管理者パスワードのハッシュ化に使います。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Seeder は初期データを投入します。
type Seeder struct {
	users        UserRepository
	specialities SpecialityRepository
	hasher       PasswordHasher
}

// NewSeeder はSeederを生成します。
func NewSeeder(users UserRepository, specialities SpecialityRepository, hasher PasswordHasher) *Seeder {
	return &Seeder{users: users, specialities: specialities, hasher: hasher}
}

// Run は管理者と専門分野をまとめて投入します。
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Admin(ctx); err != nil {
		return err
	}
	return s.Specialities(ctx)
}

// Admin は管理者アカウントを作成します。
// 同じメールアドレスのユーザーが既にいる場合はパスワードを変えずにAdministratorへ昇格させます。
func (s *Seeder) Admin(ctx context.Context) error {
	existing, err := s.users.FindByEmail(ctx, AdminMail)
	switch {
	case err == nil:
		if existing.Role == authentity.RoleAdministrator {
			slog.InfoContext(ctx, "admin already exists", "mail", AdminMail)
			return nil
		}
		if err := s.users.Update(ctx, existing, repository.Fields{"role": authentity.RoleAdministrator}); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		slog.InfoContext(ctx, "existing user promoted to admin", "mail", AdminMail)
		return nil
	case !errors.Is(err, apperr.ErrNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	digest, err := s.hasher.Hash(AdminPassword)
	if err != nil {
		return err
	}
	admin := &authentity.User{
		Name:     adminName,
		Mail:     AdminMail,
		Password: digest,
		Role:     authentity.RoleAdministrator,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.InfoContext(ctx, "admin created", "mail", AdminMail)
	return nil
}

// Specialities は存在しない専門分野だけを作成します。
func (s *Seeder) Specialities(ctx context.Context) error {
	created := 0
	for _, name := range DefaultSpecialities {
		ok, err := s.specialities.Exists(ctx, repository.Fields{"name": name})
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := s.specialities.Create(ctx, &hostentity.Speciality{Name: name}); err != nil {
			return fmt.Errorf("create speciality %q: %w", name, err)
		}
		created++
	}
	slog.InfoContext(ctx, "specialities seeded", "created", created)
	return nil
}
