// Package adapters はfollowフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/follow/domain/entity"
	"erasmus_backend/internal/platform/repository"
)

// FollowRepository はフォロー関係の永続化を担います。
type FollowRepository struct {
	*repository.Repository[entity.Follow]
}

// NewFollowRepository はFollowRepositoryの新しいインスタンスを生成します。
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{Repository: repository.New[entity.Follow](db)}
}

// Unfollow はフォロー関係を削除し、削除したかどうかを返します。
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res := r.DB(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&entity.Follow{})
	if res.Error != nil {
		return false, repository.Translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FollowerIDs はuserIDをフォローしているユーザーのIDを返します。
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, "follower_id", "following_id = ?", userID)
}

// FollowingIDs はuserIDがフォローしているユーザーのIDを返します。
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.pluck(ctx, "following_id", "follower_id = ?", userID)
}

// Counts はフォロワー数とフォロー数を返します。
func (r *FollowRepository) Counts(ctx context.Context, userID string) (entity.Counts, error) {
	var out entity.Counts
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Follow{}).Where("following_id = ?", userID).Count(&out.Followers).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Follow{}).Where("follower_id = ?", userID).Count(&out.Following).Error
	})
	return out, err
}

func (r *FollowRepository) pluck(ctx context.Context, column, cond string, userID string) ([]string, error) {
	ids := []string{}
	err := r.DB(ctx).Model(&entity.Follow{}).Where(cond, userID).Order("created_at").Pluck(column, &ids).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return ids, nil
}
