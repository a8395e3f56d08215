// Package usecase はreservationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	accentity "erasmus_backend/internal/feature/accommodation/domain/entity"
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/reservation/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// ReservationRepository は予約の永続化層を抽象化します。
type ReservationRepository interface {
	// Book は期間が重複しない場合のみ予約を作成します。重複時はapperr.ErrConflictです。
	Book(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	Update(ctx context.Context, r *entity.Reservation, fields repository.Fields) error
	ListByUser(ctx context.Context, userID string) ([]entity.Reservation, error)
}

// AccommodationReader は予約対象の宿泊施設の参照を抽象化します。
type AccommodationReader interface {
	GetByID(ctx context.Context, id string) (*accentity.Accommodation, error)
}

// CreateInput は予約作成の入力です。
type CreateInput struct {
	AccommodationID string `json:"accommodation_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// reservationUsecase は予約のビジネスロジックを実装します。
type reservationUsecase struct {
	reservations   ReservationRepository
	accommodations AccommodationReader
}

// NewReservationUsecase はreservationUsecaseの新しいインスタンスを生成します。
func NewReservationUsecase(reservations ReservationRepository, accommodations AccommodationReader) *reservationUsecase {
	return &reservationUsecase{reservations: reservations, accommodations: accommodations}
}

// Create はactorをゲストとして予約を作成します。
// 期間は宿泊施設の公開期間内でなければならず、料金は30日ごとに月額で計算します。
func (u *reservationUsecase) Create(ctx context.Context, actor *authentity.User, in CreateInput) (*entity.Reservation, error) {
	start, err := model.ParseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_date must be before end_date", apperr.ErrValidation)
	}

	acc, err := u.accommodations.GetByID(ctx, in.AccommodationID)
	if err != nil {
		return nil, apperr.NotFound(err, "accommodation")
	}
	if in.StartDate < acc.AvailableFrom || in.EndDate > acc.AvailableTo {
		return nil, fmt.Errorf("%w: dates must be within %s and %s", apperr.ErrValidation, acc.AvailableFrom, acc.AvailableTo)
	}

	r := &entity.Reservation{
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TotalPrice:      entity.TotalPrice(acc.PricePerMonth, start, end),
		Status:          entity.StatusPending,
		UserID:          actor.ID,
		AccommodationID: acc.ID,
	}
	if err := u.reservations.Book(ctx, r); err != nil {
		return nil, apperr.NotFound(err, "accommodation")
	}
	slog.InfoContext(ctx, "reservation created", "reservation_id", r.ID, "accommodation_id", acc.ID, "user_id", actor.ID)
	return r, nil
}

// Get はゲスト、宿泊施設のオーナー、または管理者に予約を返します。
func (u *reservationUsecase) Get(ctx context.Context, actor *authentity.User, id string) (*entity.Reservation, error) {
	r, ownerID, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) && actor.ID != ownerID {
		return nil, fmt.Errorf("%w: you are not a party to this reservation", apperr.ErrForbidden)
	}
	return r, nil
}

// ListByUser はゲストの予約を返します。本人または管理者のみ参照できます。
func (u *reservationUsecase) ListByUser(ctx context.Context, actor *authentity.User, userID string) ([]entity.Reservation, error) {
	if !actor.CanManage(userID) {
		return nil, fmt.Errorf("%w: you can only list your own reservations", apperr.ErrForbidden)
	}
	return u.reservations.ListByUser(ctx, userID)
}

// ChangeStatus は予約の状態を変更します。
// オーナーと管理者はPendingをAcceptedに、PendingまたはAcceptedをCancelledにできます。
// ゲストは自分の予約をキャンセルすることのみできます。Cancelledは終端状態です。
func (u *reservationUsecase) ChangeStatus(ctx context.Context, actor *authentity.User, id string, status entity.Status) (*entity.Reservation, error) {
	r, ownerID, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}

	isHost := actor.ID == ownerID || actor.IsAdmin()
	isGuest := actor.ID == r.UserID
	switch {
	case !isHost && !isGuest:
		return nil, fmt.Errorf("%w: you are not a party to this reservation", apperr.ErrForbidden)
	case status == entity.StatusAccepted && !isHost:
		return nil, fmt.Errorf("%w: only the host can accept a reservation", apperr.ErrForbidden)
	}

	if err := transition(r.Status, status); err != nil {
		return nil, err
	}
	if err := u.reservations.Update(ctx, r, repository.Fields{"status": status}); err != nil {
		return nil, apperr.NotFound(err, "reservation")
	}
	slog.InfoContext(ctx, "reservation status changed", "reservation_id", r.ID, "status", string(status), "actor_id", actor.ID)
	return r, nil
}

// load は予約と宿泊施設のオーナーIDを取得します。
func (u *reservationUsecase) load(ctx context.Context, id string) (*entity.Reservation, string, error) {
	r, err := u.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, "", apperr.NotFound(err, "reservation")
	}
	acc, err := u.accommodations.GetByID(ctx, r.AccommodationID)
	if err != nil {
		return nil, "", apperr.NotFound(err, "accommodation")
	}
	return r, acc.OwnerID, nil
}

// transition は状態遷移が許可されているかを検証します。
func transition(from, to entity.Status) error {
	switch {
	case from == entity.StatusCancelled:
		return fmt.Errorf("%w: reservation is already cancelled", apperr.ErrValidation)
	case to == entity.StatusAccepted && from != entity.StatusPending:
		return fmt.Errorf("%w: only pending reservations can be accepted", apperr.ErrValidation)
	case to != entity.StatusAccepted && to != entity.StatusCancelled:
		return fmt.Errorf("%w: status must be Accepted or Cancelled", apperr.ErrValidation)
	}
	return nil
}
