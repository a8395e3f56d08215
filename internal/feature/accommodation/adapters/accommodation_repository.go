// Package adapters はaccommodationフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erasmus_backend/internal/feature/accommodation/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// AccommodationRepository は宿泊施設の永続化を担います。
type AccommodationRepository struct {
	*repository.Repository[entity.Accommodation]
}

// NewAccommodationRepository はAccommodationRepositoryの新しいインスタンスを生成します。
func NewAccommodationRepository(db *gorm.DB) *AccommodationRepository {
	return &AccommodationRepository{Repository: repository.New[entity.Accommodation](db)}
}

// ListByOwner はオーナーの宿泊施設を作成順に返します。
func (r *AccommodationRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Accommodation, error) {
	var out []entity.Accommodation
	if err := r.DB(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// Countries は宿泊施設が存在する国の一覧をアルファベット順で返します。
func (r *AccommodationRepository) Countries(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.DB(ctx).Model(&entity.Accommodation{}).Distinct("country").Order("country").Pluck("country", &out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// Cities はcountry（大文字小文字を区別しない）に宿泊施設がある都市の一覧を返します。
func (r *AccommodationRepository) Cities(ctx context.Context, country string) ([]string, error) {
	out := []string{}
	err := r.DB(ctx).Model(&entity.Accommodation{}).
		Where("LOWER(country) = ?", strings.ToLower(strings.TrimSpace(country))).
		Distinct("city").Order("city").Pluck("city", &out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ImageRepository は宿泊施設の画像の永続化を担います。
type ImageRepository struct {
	*repository.Repository[entity.Image]
}

// NewImageRepository はImageRepositoryの新しいインスタンスを生成します。
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{Repository: repository.New[entity.Image](db)}
}

// ListByAccommodation は宿泊施設の画像をアップロード順に返します。
func (r *ImageRepository) ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Image, error) {
	var out []entity.Image
	if err := r.DB(ctx).Where("accommodation_id = ?", accommodationID).Order("created_at").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// CountByAccommodation は宿泊施設の画像数を返します。
func (r *ImageRepository) CountByAccommodation(ctx context.Context, accommodationID string) (int64, error) {
	var n int64
	if err := r.DB(ctx).Model(&entity.Image{}).Where("accommodation_id = ?", accommodationID).Count(&n).Error; err != nil {
		return 0, repository.Translate(err)
	}
	return n, nil
}

// AddWithLimit は宿泊施設の画像がlimit未満であることを確認してから画像を作成します。
// 確認と作成は1つのトランザクションで行い、上限に達している場合はapperr.ErrValidationを返します。
func (r *ImageRepository) AddWithLimit(ctx context.Context, img *entity.Image, limit int64) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		// PostgreSQLでは宿泊施設の行をロックして同時アップロードを直列化する（SQLiteでは無視される）
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", img.AccommodationID).First(&entity.Accommodation{}).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&entity.Image{}).Where("accommodation_id = ?", img.AccommodationID).Count(&n).Error; err != nil {
			return err
		}
		if n >= limit {
			return fmt.Errorf("%w: an accommodation can have at most %d images", apperr.ErrValidation, limit)
		}
		if err := tx.Create(img).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", img.ID).First(img).Error
	})
}
