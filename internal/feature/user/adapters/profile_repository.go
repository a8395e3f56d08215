// Package adapters はuserフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/user/domain/entity"
	"erasmus_backend/internal/platform/repository"
)

// UserScopedRepository は1人のユーザーに属するレコード（ソーシャルリンク、言語）の永続化を担います。
// 汎用のCRUDは repository.Repository を埋め込んで再利用し、ユーザー単位の一覧と一括置換のみを追加します。
type UserScopedRepository[T any, PT interface {
	*T
	entity.UserScoped
}] struct {
	*repository.Repository[T]
}

// NewSocialLinkRepository はソーシャルリンク用のリポジトリを生成します。
func NewSocialLinkRepository(db *gorm.DB) *UserScopedRepository[entity.SocialMediaLink, *entity.SocialMediaLink] {
	return &UserScopedRepository[entity.SocialMediaLink, *entity.SocialMediaLink]{Repository: repository.New[entity.SocialMediaLink](db)}
}

// NewLanguageRepository は言語用のリポジトリを生成します。
func NewLanguageRepository(db *gorm.DB) *UserScopedRepository[entity.UserLanguage, *entity.UserLanguage] {
	return &UserScopedRepository[entity.UserLanguage, *entity.UserLanguage]{Repository: repository.New[entity.UserLanguage](db)}
}

// ListByUser はユーザーのレコードを作成順に返します。
func (r *UserScopedRepository[T, PT]) ListByUser(ctx context.Context, userID string) ([]T, error) {
	var out []T
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("created_at").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ReplaceForUser はユーザーの既存レコードをすべて削除し、itemsで置き換えます。
// 削除と作成は1つのトランザクションで行われ、途中で失敗すると元の状態に戻ります。
func (r *UserScopedRepository[T, PT]) ReplaceForUser(ctx context.Context, userID string, items []T) ([]T, error) {
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(new(T)).Error; err != nil {
			return err
		}
		for i := range items {
			PT(&items[i]).SetUserID(userID)
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
