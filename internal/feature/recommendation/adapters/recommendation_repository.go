// Package adapters はrecommendationフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erasmus_backend/internal/feature/recommendation/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// RecommendationRepository はおすすめスポットの永続化を担います。
type RecommendationRepository struct {
	*repository.Repository[entity.Recommendation]
}

// NewRecommendationRepository はRecommendationRepositoryの新しいインスタンスを生成します。
func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{Repository: repository.New[entity.Recommendation](db)}
}

// ListByUser はユーザーのおすすめを新しい順に返します。
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Recommendation, error) {
	var out []entity.Recommendation
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ImageRepository はおすすめの画像の永続化を担います。
type ImageRepository struct {
	*repository.Repository[entity.Image]
}

// NewImageRepository はImageRepositoryの新しいインスタンスを生成します。
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{Repository: repository.New[entity.Image](db)}
}

// ListByRecommendation はおすすめの画像をアップロード順に返します。
func (r *ImageRepository) ListByRecommendation(ctx context.Context, recommendationID string) ([]entity.Image, error) {
	var out []entity.Image
	if err := r.DB(ctx).Where("recommendation_id = ?", recommendationID).Order("created_at").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// CountByRecommendation はおすすめの画像数を返します。
func (r *ImageRepository) CountByRecommendation(ctx context.Context, recommendationID string) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(&entity.Image{}).Where("recommendation_id = ?", recommendationID).Count(&n).Error; err != nil {
		return 0, repository.Translate(err)
	}
	return n, nil
}

// AddWithLimit はおすすめの画像がlimit未満であることを確認してから画像を作成します。
// 上限に達している場合はapperr.ErrValidationを返します。
func (r *ImageRepository) AddWithLimit(ctx context.Context, img *entity.Image, limit int64) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", img.RecommendationID).First(&entity.Recommendation{}).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&entity.Image{}).Where("recommendation_id = ?", img.RecommendationID).Count(&n).Error; err != nil {
			return err
		}
		if n >= limit {
			return fmt.Errorf("%w: a recommendation can have at most %d images", apperr.ErrValidation, limit)
		}
		if err := tx.Create(img).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", img.ID).First(img).Error
	})
}
