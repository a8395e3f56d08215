// Package adapters はreservationフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	accentity "erasmus_backend/internal/feature/accommodation/domain/entity"
	"erasmus_backend/internal/feature/reservation/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// ReservationRepository は予約の永続化を担います。
type ReservationRepository struct {
	*repository.Repository[entity.Reservation]
}

// NewReservationRepository はReservationRepositoryの新しいインスタンスを生成します。
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{Repository: repository.New[entity.Reservation](db)}
}

// Book は重複する有効な予約（キャンセル以外）がないことを確認してから予約を作成します。
// 確認と作成は1つのトランザクションで行い、重複がある場合はapperr.ErrConflictを返します。
func (r *ReservationRepository) Book(ctx context.Context, res *entity.Reservation) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		// PostgreSQLでは宿泊施設の行をロックして同時予約を直列化する（SQLiteでは無視される）
		var acc accentity.Accommodation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", res.AccommodationID).First(&acc).Error; err != nil {
			return err
		}

		var n int64
		err := active(tx.Model(&entity.Reservation{})).
			Where("accommodation_id = ? AND start_date < ? AND end_date > ?", res.AccommodationID, res.EndDate, res.StartDate).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: accommodation is already booked for these dates", apperr.ErrConflict)
		}
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", res.ID).First(res).Error
	})
}

// ListByUser はゲストの予約を開始日順に返します。
func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Reservation, error) {
	var out []entity.Reservation
	if err := r.DB(ctx).Where("user_id = ?", userID).Order("start_date").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// BookedRanges はキャンセルされていない予約の期間を開始日順に返します。
func (r *ReservationRepository) BookedRanges(ctx context.Context, accommodationID string) ([]accentity.DateRange, error) {
	out := []accentity.DateRange{}
	err := active(r.DB(ctx).Model(&entity.Reservation{})).
		Select("start_date", "end_date").
		Where("accommodation_id = ?", accommodationID).
		Order("start_date").
		Scan(&out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

func active(tx *gorm.DB) *gorm.DB {
	return tx.Where("status <> ?", entity.StatusCancelled)
}
