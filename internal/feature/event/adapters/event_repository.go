// Package adapters はeventフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"erasmus_backend/internal/feature/event/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

// errAlreadyJoined は同時参加でユニーク制約に当たった場合にトランザクションを巻き戻すために使います。
var errAlreadyJoined = errors.New("already joined")

// EventRepository はイベントと参加者の永続化を担います。
type EventRepository struct {
	*repository.Repository[entity.Event]
}

// NewEventRepository はEventRepositoryの新しいインスタンスを生成します。
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{Repository: repository.New[entity.Event](db)}
}

// ListByCreator はユーザーが作成したイベントを開催日順に返します。
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]entity.Event, error) {
	var out []entity.Event
	if err := r.DB(ctx).Where("creator_id = ?", creatorID).Order("date").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ListParticipating はユーザーが参加しているイベントを開催日順に返します。
func (r *EventRepository) ListParticipating(ctx context.Context, userID string) ([]entity.Event, error) {
	var out []entity.Event
	err := r.DB(ctx).
		Joins("JOIN event_participants ON event_participants.event_id = events.id").
		Where("event_participants.user_id = ?", userID).
		Order("events.date").
		Find(&out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// JoinedEventIDs はユーザーが参加しているイベントのIDを返します。
func (r *EventRepository) JoinedEventIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.DB(ctx).Model(&entity.Participant{}).Where("user_id = ?", userID).Pluck("event_id", &ids).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return ids, nil
}

// ParticipantIDs はイベント参加者のユーザーIDを参加順に返します。
func (r *EventRepository) ParticipantIDs(ctx context.Context, eventID string) ([]string, error) {
	ids := []string{}
	err := r.DB(ctx).Model(&entity.Participant{}).Where("event_id = ?", eventID).Order("created_at").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return ids, nil
}

// Countries はイベントが開催される国の一覧をアルファベット順で返します。
func (r *EventRepository) Countries(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.DB(ctx).Model(&entity.Event{}).Distinct("country").Order("country").Pluck("country", &out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// Join はユーザーをイベントに参加させ、参加者数を1増やします。
// 既に参加済みならfalseを返します。定員に達している場合はapperr.ErrConflictです。
// 参加者の追加とカウンターの更新は1つのトランザクションで行います。
func (r *EventRepository) Join(ctx context.Context, eventID, userID string) (bool, error) {
	joined := true
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		var ev entity.Event
		if err := tx.Select("id").Where("id = ?", eventID).First(&ev).Error; err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&entity.Participant{}).Where("event_id = ? AND user_id = ?", eventID, userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			joined = false
			return nil
		}

		// 定員チェックと加算を1つの条件付きUPDATEで行う
		res := tx.Model(&entity.Event{}).
			Where("id = ? AND (max_attendees IS NULL OR attendees_count < max_attendees)", eventID).
			Update("attendees_count", gorm.Expr("attendees_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: event is full", apperr.ErrConflict)
		}

		if err := tx.Create(&entity.Participant{EventID: eventID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyJoined
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyJoined) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return joined, nil
}

// Leave はユーザーをイベントから外し、参加者数を1減らします（0未満にはなりません）。
// 参加していなかった場合はfalseを返します。
func (r *EventRepository) Leave(ctx context.Context, eventID, userID string) (bool, error) {
	left := false
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.Participant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		left = true
		return tx.Model(&entity.Event{}).Where("id = ?", eventID).
			Update("attendees_count", gorm.Expr("CASE WHEN attendees_count > 0 THEN attendees_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return false, err
	}
	return left, nil
}
