// Package usecase はeventフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/event/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// EventRepository はイベントの永続化層を抽象化します。
type EventRepository interface {
	GetAll(ctx context.Context) ([]entity.Event, error)
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	Create(ctx context.Context, e *entity.Event) error
	Update(ctx context.Context, e *entity.Event, fields repository.Fields) error
	Delete(ctx context.Context, e *entity.Event) error
	ListByCreator(ctx context.Context, creatorID string) ([]entity.Event, error)
	ListParticipating(ctx context.Context, userID string) ([]entity.Event, error)
	JoinedEventIDs(ctx context.Context, userID string) ([]string, error)
	ParticipantIDs(ctx context.Context, eventID string) ([]string, error)
	Countries(ctx context.Context) ([]string, error)
	Join(ctx context.Context, eventID, userID string) (bool, error)
	Leave(ctx context.Context, eventID, userID string) (bool, error)
}

// UserReader は参加者のユーザー情報の参照を抽象化します。
type UserReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]authentity.User, error)
}

// EventInput はイベントの作成入力です。
type EventInput struct {
	Title        string          `json:"title" binding:"required,max=200"`
	Date         time.Time       `json:"date" binding:"required"`
	Location     string          `json:"location" binding:"required,max=200"`
	Address      string          `json:"address" binding:"max=300"`
	City         string          `json:"city" binding:"required,max=100"`
	Country      string          `json:"country" binding:"required,max=100"`
	MaxAttendees *int            `json:"max_attendees" binding:"omitempty,gte=1"`
	Category     entity.Category `json:"category" binding:"required,oneof=Social Cultural Sports Academic Travel Party Other"`
	Description  string          `json:"description" binding:"max=5000"`
	ImageURL     string          `json:"image_url" binding:"omitempty,url,max=500"`
	Tags         []string        `json:"tags" binding:"max=20,dive,min=1,max=50"`
}

// EventPatch はイベントの部分更新です。nilのフィールドは変更しません。
type EventPatch struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Date         *time.Time       `json:"date"`
	Location     *string          `json:"location" binding:"omitempty,min=1,max=200"`
	Address      *string          `json:"address" binding:"omitempty,max=300"`
	City         *string          `json:"city" binding:"omitempty,min=1,max=100"`
	Country      *string          `json:"country" binding:"omitempty,min=1,max=100"`
	MaxAttendees *int             `json:"max_attendees" binding:"omitempty,gte=1"`
	Category     *entity.Category `json:"category" binding:"omitempty,oneof=Social Cultural Sports Academic Travel Party Other"`
	Description  *string          `json:"description" binding:"omitempty,max=5000"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,url,max=500"`
	Tags         *[]string        `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// EventView はイベントに閲覧者の参加状態を付けたレスポンスです。
type EventView struct {
	entity.Event
	Joined bool `json:"joined"`
}

// eventUsecase はイベントのビジネスロジックを実装します。
type eventUsecase struct {
	events EventRepository
	users  UserReader
}

// NewEventUsecase はeventUsecaseの新しいインスタンスを生成します。
func NewEventUsecase(events EventRepository, users UserReader) *eventUsecase {
	return &eventUsecase{events: events, users: users}
}

// List はすべてのイベントを返します。
func (u *eventUsecase) List(ctx context.Context, viewer *authentity.User) ([]EventView, error) {
	all, err := u.events.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return u.views(ctx, viewer, all)
}

// Get はIDでイベントを取得します。
func (u *eventUsecase) Get(ctx context.Context, viewer *authentity.User, id string) (*EventView, error) {
	e, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := u.views(ctx, viewer, []entity.Event{*e})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create はactorを作成者としてイベントを登録します。
func (u *eventUsecase) Create(ctx context.Context, actor *authentity.User, in EventInput) (*entity.Event, error) {
	e := &entity.Event{
		Title:        strings.TrimSpace(in.Title),
		Date:         in.Date,
		Location:     strings.TrimSpace(in.Location),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		Country:      strings.TrimSpace(in.Country),
		MaxAttendees: in.MaxAttendees,
		Category:     in.Category,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Tags:         model.NormalizeTags(in.Tags),
		CreatorID:    actor.ID,
	}
	if err := u.events.Create(ctx, e); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "event created", "event_id", e.ID, "creator_id", actor.ID)
	return e, nil
}

// Update は作成者または管理者による部分更新を行います。
// 定員を現在の参加者数より小さくすることはできません。
func (u *eventUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch EventPatch) (*entity.Event, error) {
	e, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.MaxAttendees != nil && *patch.MaxAttendees < e.AttendeesCount {
		return nil, fmt.Errorf("%w: max_attendees cannot be lower than the current %d attendees", apperr.ErrValidation, e.AttendeesCount)
	}

	fields := repository.Fields{}
	repository.SetIf(fields, "title", trimmed(patch.Title))
	repository.SetIf(fields, "date", patch.Date)
	repository.SetIf(fields, "location", trimmed(patch.Location))
	repository.SetIf(fields, "address", trimmed(patch.Address))
	repository.SetIf(fields, "city", trimmed(patch.City))
	repository.SetIf(fields, "country", trimmed(patch.Country))
	repository.SetIf(fields, "max_attendees", patch.MaxAttendees)
	repository.SetIf(fields, "category", patch.Category)
	repository.SetIf(fields, "description", patch.Description)
	repository.SetIf(fields, "image_url", patch.ImageURL)
	if patch.Tags != nil {
		tags, err := model.TagsColumn(*patch.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = tags
	}

	if err := u.events.Update(ctx, e, fields); err != nil {
		return nil, apperr.NotFound(err, "event")
	}
	return e, nil
}

// Delete は作成者または管理者がイベントを削除します。
func (u *eventUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	e, err := u.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.events.Delete(ctx, e)
}

// Countries はイベントのある国を返します。
func (u *eventUsecase) Countries(ctx context.Context) ([]string, error) {
	return u.events.Countries(ctx)
}

// ListByCreator はユーザーが作成したイベントを返します。
func (u *eventUsecase) ListByCreator(ctx context.Context, viewer *authentity.User, userID string) ([]EventView, error) {
	items, err := u.events.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.views(ctx, viewer, items)
}

// ListParticipating はユーザーが参加しているイベントを返します。
func (u *eventUsecase) ListParticipating(ctx context.Context, viewer *authentity.User, userID string) ([]EventView, error) {
	items, err := u.events.ListParticipating(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.views(ctx, viewer, items)
}

// Join はactorをイベントに参加させます。既に参加済みならfalseを返します。
func (u *eventUsecase) Join(ctx context.Context, actor *authentity.User, id string) (bool, error) {
	joined, err := u.events.Join(ctx, id, actor.ID)
	if err != nil {
		return false, apperr.NotFound(err, "event")
	}
	if joined {
		slog.InfoContext(ctx, "event joined", "event_id", id, "user_id", actor.ID)
	}
	return joined, nil
}

// Leave はactorをイベントから外します。参加していなければfalseを返します。
func (u *eventUsecase) Leave(ctx context.Context, actor *authentity.User, id string) (bool, error) {
	if _, err := u.get(ctx, id); err != nil {
		return false, err
	}
	return u.events.Leave(ctx, id, actor.ID)
}

// Participants はイベントの参加者を参加順に返します。
func (u *eventUsecase) Participants(ctx context.Context, id string) ([]authentity.User, error) {
	if _, err := u.get(ctx, id); err != nil {
		return nil, err
	}
	ids, err := u.events.ParticipantIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := u.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	// FindByIDsは順序を保証しないため参加順に並べ直す
	byID := make(map[string]authentity.User, len(users))
	for _, usr := range users {
		byID[usr.ID] = usr
	}
	out := make([]authentity.User, 0, len(ids))
	for _, pid := range ids {
		if usr, ok := byID[pid]; ok {
			out = append(out, usr)
		}
	}
	return out, nil
}

func (u *eventUsecase) get(ctx context.Context, id string) (*entity.Event, error) {
	e, err := u.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "event")
	}
	return e, nil
}

// manageable はイベントを取得し、actorが作成者または管理者であることを確認します。
func (u *eventUsecase) manageable(ctx context.Context, actor *authentity.User, id string) (*entity.Event, error) {
	e, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(e.CreatorID) {
		return nil, fmt.Errorf("%w: only the creator can modify this event", apperr.ErrForbidden)
	}
	return e, nil
}

// views は閲覧者の参加状態を付与します。
func (u *eventUsecase) views(ctx context.Context, viewer *authentity.User, items []entity.Event) ([]EventView, error) {
	joined := map[string]bool{}
	if viewer != nil {
		ids, err := u.events.JoinedEventIDs(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			joined[id] = true
		}
	}
	out := make([]EventView, 0, len(items))
	for _, e := range items {
		out = append(out, EventView{Event: e, Joined: joined[e.ID]})
	}
	return out, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
