// Package adapters はreviewフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/review/domain/entity"
	"erasmus_backend/internal/platform/repository"
)

// ReviewRepository はレビューの永続化を担います。
type ReviewRepository struct {
	*repository.Repository[entity.Review]
}

// NewReviewRepository はReviewRepositoryの新しいインスタンスを生成します。
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{Repository: repository.New[entity.Review](db)}
}

// ListByAccommodation は宿泊施設に対するレビューを新しい順に返します。予約を経由して結合します。
func (r *ReviewRepository) ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Review, error) {
	var out []entity.Review
	err := r.DB(ctx).
		Joins("JOIN reservations ON reservations.id = reviews.reservation_id").
		Where("reservations.accommodation_id = ?", accommodationID).
		Order("reviews.created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ListByUser はユーザーが書いたレビューを新しい順に返します。
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]entity.Review, error) {
	var out []entity.Review
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}
