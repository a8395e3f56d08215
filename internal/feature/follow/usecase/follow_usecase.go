// Package usecase はfollowフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/follow/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// FollowRepository はフォロー関係の永続化層を抽象化します。
type FollowRepository interface {
	// Create はフォロー関係を保存します。既に存在する場合はapperr.ErrConflictを返します。
	Create(ctx context.Context, f *entity.Follow) error
	Unfollow(ctx context.Context, followerID, followingID string) (bool, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	Counts(ctx context.Context, userID string) (entity.Counts, error)
}

// UserRepository はフォロー対象ユーザーの参照を抽象化します。
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*authentity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]authentity.User, error)
}

// Notifier は接続中のユーザーへのリアルタイム通知を抽象化します（realtime.Hubが実装）。
// SendJSONはキューに積むだけで、相手の受信を待ちません。
type Notifier interface {
	SendJSON(userID string, v any) int
}

// followUsecase はフォロー操作のビジネスロジックを実装します。
type followUsecase struct {
	follows  FollowRepository
	users    UserRepository
	notifier Notifier
}

// NewFollowUsecase はfollowUsecaseの新しいインスタンスを生成します。notifierはnilでも構いません。
func NewFollowUsecase(follows FollowRepository, users UserRepository, notifier Notifier) *followUsecase {
	return &followUsecase{follows: follows, users: users, notifier: notifier}
}

// Follow はactorがtargetIDをフォローします。
// Bannedは403、自分自身は422、対象が存在しなければ404、既にフォロー済みなら409です。
// /wsからも呼ばれるため、ロールはルーターだけでなくここでも確認します。
// 成功するとフォローされたユーザーに通知を送ります。
func (u *followUsecase) Follow(ctx context.Context, actor *authentity.User, targetID string) (*entity.Follow, error) {
	if !actor.HasRole(authentity.ActiveRoles...) {
		return nil, apperr.ErrForbidden
	}
	if actor.ID == targetID {
		return nil, fmt.Errorf("%w: you cannot follow yourself", apperr.ErrValidation)
	}
	if _, err := u.users.GetByID(ctx, targetID); err != nil {
		return nil, apperr.NotFound(err, "user")
	}

	f := &entity.Follow{FollowerID: actor.ID, FollowingID: targetID}
	if err := u.follows.Create(ctx, f); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: already following this user", apperr.ErrConflict)
		}
		return nil, err
	}

	if u.notifier != nil {
		n := u.notifier.SendJSON(targetID, entity.Notification{Type: entity.NotificationTypeFollow, FollowerID: actor.ID})
		slog.DebugContext(ctx, "follow notification sent", "target_id", targetID, "connections", n)
	}
	return f, nil
}

// Unfollow はフォローを解除します。フォローしていなくてもエラーにはなりません。
func (u *followUsecase) Unfollow(ctx context.Context, actor *authentity.User, targetID string) error {
	_, err := u.follows.Unfollow(ctx, actor.ID, targetID)
	return err
}

// Followers はuserIDのフォロワーを返します。
func (u *followUsecase) Followers(ctx context.Context, userID string) ([]authentity.User, error) {
	return u.resolve(ctx, userID, u.follows.FollowerIDs)
}

// Following はuserIDがフォローしているユーザーを返します。
func (u *followUsecase) Following(ctx context.Context, userID string) ([]authentity.User, error) {
	return u.resolve(ctx, userID, u.follows.FollowingIDs)
}

// Counts はuserIDのフォロワー数とフォロー数を返します。
func (u *followUsecase) Counts(ctx context.Context, userID string) (entity.Counts, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return entity.Counts{}, apperr.NotFound(err, "user")
	}
	return u.follows.Counts(ctx, userID)
}

func (u *followUsecase) resolve(ctx context.Context, userID string, ids func(context.Context, string) ([]string, error)) ([]authentity.User, error) {
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return nil, apperr.NotFound(err, "user")
	}
	list, err := ids(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.users.FindByIDs(ctx, list)
}
