// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// UserRepository はUserの永続化を担います。
// 汎用のCRUDは repository.Repository を埋め込んで再利用し、ここではメールアドレス検索のみを追加します。
type UserRepository struct {
	*repository.Repository[entity.User]
}

// NewUserRepository は指定されたgorm.DB接続でUserRepositoryの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: repository.New[entity.User](db)}
}

// FindByEmail はメールアドレス（大文字小文字を区別しない）でユーザーを取得します。
// ユーザーが存在しない場合、apperr.ErrNotFoundを返します。
func (r *UserRepository) FindByEmail(ctx context.Context, mail string) (*entity.User, error) {
	var u entity.User
	err := r.DB(ctx).Where("LOWER(mail) = ?", strings.ToLower(strings.TrimSpace(mail))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, repository.Translate(err)
	}
	return &u, nil
}

// FindByIDs は指定されたIDのユーザーをまとめて取得します。存在しないIDは無視されます。
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	var users []entity.User
	if err := r.DB(ctx).Where("id IN ?", ids).Order("name").Find(&users).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return users, nil
}

// FindByRole は指定ロールのユーザーを返します。
func (r *UserRepository) FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	if err := r.DB(ctx).Where("role = ?", role).Order("name").Find(&users).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return users, nil
}
