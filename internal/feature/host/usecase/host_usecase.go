// Package usecase はhostフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/host/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// HostRequestRepository はホスト申請の永続化層を抽象化します。
type HostRequestRepository interface {
	// Submit は申請を保存します。審査中の申請が既にあればapperr.ErrConflictを返します。
	Submit(ctx context.Context, req *entity.HostRequest) error
	Find(ctx context.Context, id string) (*entity.HostRequest, error)
	List(ctx context.Context) ([]entity.HostRequest, error)
	ListApproved(ctx context.Context) ([]entity.HostRequest, error)
	// Approve とReject はPending以外の申請に対してapperr.ErrValidationを返します。
	Approve(ctx context.Context, id string, at time.Time) (*entity.HostRequest, error)
	Reject(ctx context.Context, id string) (*entity.HostRequest, error)
}

// SpecialityRepository は専門分野の永続化層を抽象化します。
type SpecialityRepository interface {
	Create(ctx context.Context, s *entity.Speciality) error
	ListByName(ctx context.Context) ([]entity.Speciality, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.Speciality, error)
}

// Notifier は接続中のユーザーへのリアルタイム通知を抽象化します（realtime.Hubが実装）。
type Notifier interface {
	SendJSON(userID string, v any) int
}

// RequestInput はホスト申請の入力です。
type RequestInput struct {
	Reason        string   `json:"reason" binding:"required,min=10,max=2000"`
	SpecialityIDs []string `json:"speciality_ids" binding:"max=10,dive,required"`
}

// SpecialityInput は専門分野の作成入力です。
type SpecialityInput struct {
	Name string `json:"name" binding:"required,max=100"`
}

// hostUsecase はホスト申請のビジネスロジックを実装します。
type hostUsecase struct {
	requests     HostRequestRepository
	specialities SpecialityRepository
	notifier     Notifier
	now          func() time.Time
}

// NewHostUsecase はhostUsecaseの新しいインスタンスを生成します。notifierはnilでも構いません。
func NewHostUsecase(requests HostRequestRepository, specialities SpecialityRepository, notifier Notifier) *hostUsecase {
	return &hostUsecase{requests: requests, specialities: specialities, notifier: notifier, now: time.Now}
}

// Submit はactorのホスト申請を作成します。既にHostなら409、審査中の申請があっても409です。
func (u *hostUsecase) Submit(ctx context.Context, actor *authentity.User, in RequestInput) (*entity.HostRequest, error) {
	if actor.HasRole(authentity.RoleHost) {
		return nil, fmt.Errorf("%w: you are already a host", apperr.ErrConflict)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", apperr.ErrValidation)
	}

	ids := unique(in.SpecialityIDs)
	specs, err := u.specialities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(specs) != len(ids) {
		return nil, fmt.Errorf("%w: unknown speciality", apperr.ErrValidation)
	}

	req := &entity.HostRequest{UserID: actor.ID, Reason: reason, Status: entity.StatusPending, Specialities: specs}
	if err := u.requests.Submit(ctx, req); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "host request submitted", "request_id", req.ID, "user_id", actor.ID)
	return req, nil
}

// List はすべての申請を返します。管理者のみ参照できます。
func (u *hostUsecase) List(ctx context.Context, actor *authentity.User) ([]entity.HostRequest, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators only", apperr.ErrForbidden)
	}
	return u.requests.List(ctx)
}

// Get は申請を返します。管理者と申請者本人のみ参照できます。
func (u *hostUsecase) Get(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error) {
	req, err := u.requests.Find(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "host request")
	}
	if !actor.CanManage(req.UserID) {
		return nil, fmt.Errorf("%w: you can only view your own host requests", apperr.ErrForbidden)
	}
	return req, nil
}

// Approve は申請を承認し、申請者をHostにします。管理者のみ実行できます。
func (u *hostUsecase) Approve(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators only", apperr.ErrForbidden)
	}
	req, err := u.requests.Approve(ctx, id, u.now().UTC())
	if err != nil {
		return nil, apperr.NotFound(err, "host request")
	}
	u.reviewed(ctx, actor, req)
	return req, nil
}

// Reject は申請を却下します。管理者のみ実行できます。
func (u *hostUsecase) Reject(ctx context.Context, actor *authentity.User, id string) (*entity.HostRequest, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators only", apperr.ErrForbidden)
	}
	req, err := u.requests.Reject(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "host request")
	}
	u.reviewed(ctx, actor, req)
	return req, nil
}

// Hosts は承認済みのホストを返します。
func (u *hostUsecase) Hosts(ctx context.Context) ([]entity.HostRequest, error) {
	return u.requests.ListApproved(ctx)
}

// Specialities は専門分野を名前順で返します。
func (u *hostUsecase) Specialities(ctx context.Context) ([]entity.Speciality, error) {
	return u.specialities.ListByName(ctx)
}

// CreateSpeciality は専門分野を追加します。管理者のみ実行でき、同名は409です。
func (u *hostUsecase) CreateSpeciality(ctx context.Context, actor *authentity.User, in SpecialityInput) (*entity.Speciality, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: administrators only", apperr.ErrForbidden)
	}
	s := &entity.Speciality{Name: strings.TrimSpace(in.Name)}
	if s.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	if err := u.specialities.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// reviewed は審査結果をログに残し、申請者へ通知します。
func (u *hostUsecase) reviewed(ctx context.Context, actor *authentity.User, req *entity.HostRequest) {
	slog.InfoContext(ctx, "host request reviewed",
		"request_id", req.ID, "status", string(req.Status), "user_id", req.UserID, "admin_id", actor.ID)
	if u.notifier != nil {
		u.notifier.SendJSON(req.UserID, entity.Notification{
			Type:      entity.NotificationTypeHostRequest,
			RequestID: req.ID,
			Status:    req.Status,
		})
	}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
