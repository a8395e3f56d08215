// Package usecase はreviewフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	resentity "erasmus_backend/internal/feature/reservation/domain/entity"
	"erasmus_backend/internal/feature/review/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// ReviewRepository はレビューの永続化層を抽象化します。
type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Create(ctx context.Context, r *entity.Review) error
	Delete(ctx context.Context, r *entity.Review) error
	ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Review, error)
}

// ReservationReader はレビュー対象の予約の参照を抽象化します。
type ReservationReader interface {
	GetByID(ctx context.Context, id string) (*resentity.Reservation, error)
}

// TextModerator は投稿テキストの審査を抽象化します。
type TextModerator interface {
	CheckText(ctx context.Context, text string) error
}

// CreateInput はレビュー作成の入力です。
type CreateInput struct {
	ReservationID string `json:"reservation_id" binding:"required"`
	Title         string `json:"title" binding:"required,max=200"`
	Content       string `json:"content" binding:"required,max=5000"`
	Rating        int    `json:"rating" binding:"required,gte=1,lte=5"`
}

// reviewUsecase はレビューのビジネスロジックを実装します。
type reviewUsecase struct {
	reviews      ReviewRepository
	reservations ReservationReader
	moderator    TextModerator
}

// NewReviewUsecase はreviewUsecaseの新しいインスタンスを生成します。
func NewReviewUsecase(reviews ReviewRepository, reservations ReservationReader, moderator TextModerator) *reviewUsecase {
	return &reviewUsecase{reviews: reviews, reservations: reservations, moderator: moderator}
}

// Create は承認済み予約のゲストによるレビューを登録します。1つの予約につき1件までです。
func (u *reviewUsecase) Create(ctx context.Context, actor *authentity.User, in CreateInput) (*entity.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrValidation)
	}
	res, err := u.reservations.GetByID(ctx, in.ReservationID)
	if err != nil {
		return nil, apperr.NotFound(err, "reservation")
	}
	if res.UserID != actor.ID {
		return nil, fmt.Errorf("%w: only the guest can review this stay", apperr.ErrForbidden)
	}
	if res.Status != resentity.StatusAccepted {
		return nil, fmt.Errorf("%w: only accepted reservations can be reviewed", apperr.ErrValidation)
	}

	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if err := u.moderator.CheckText(ctx, title+"\n"+content); err != nil {
		return nil, err
	}

	r := &entity.Review{Title: title, Content: content, Rating: in.Rating, ReservationID: res.ID, UserID: actor.ID}
	if err := u.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: this reservation has already been reviewed", apperr.ErrConflict)
		}
		return nil, err
	}
	return r, nil
}

// ListByAccommodation は宿泊施設のレビューを返します。
func (u *reviewUsecase) ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Review, error) {
	return u.reviews.ListByAccommodation(ctx, accommodationID)
}

// ListByUser はユーザーが書いたレビューを返します。
func (u *reviewUsecase) ListByUser(ctx context.Context, userID string) ([]entity.Review, error) {
	return u.reviews.ListByUser(ctx, userID)
}

// Delete は作成者または管理者がレビューを削除します。
func (u *reviewUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	r, err := u.reviews.GetByID(ctx, id)
	if err != nil {
		return apperr.NotFound(err, "review")
	}
	if !actor.CanManage(r.UserID) {
		return fmt.Errorf("%w: only the author can delete this review", apperr.ErrForbidden)
	}
	return u.reviews.Delete(ctx, r)
}
