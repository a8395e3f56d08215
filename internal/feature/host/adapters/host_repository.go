// Package adapters はhostフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/host/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
)

var errPendingRequest = fmt.Errorf("%w: you already have a pending host request", apperr.ErrConflict)

// HostRequestRepository はホスト申請の永続化を担います。
type HostRequestRepository struct {
	*repository.Repository[entity.HostRequest]
}

// NewHostRequestRepository はHostRequestRepositoryの新しいインスタンスを生成します。
func NewHostRequestRepository(db *gorm.DB) *HostRequestRepository {
	return &HostRequestRepository{Repository: repository.New[entity.HostRequest](db)}
}

// Submit は申請を保存します。同じユーザーの審査中の申請が既にあればapperr.ErrConflictです。
// 審査中の申請はユーザーごとに部分ユニークインデックスでも1件に制限されます。
func (r *HostRequestRepository) Submit(ctx context.Context, req *entity.HostRequest) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		// PostgreSQLでは申請者の行をロックして同じユーザーの同時申請を直列化する（SQLiteでは無視される）
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", req.UserID).First(&authentity.User{}).Error; err != nil {
			return apperr.NotFound(repository.Translate(err), "user")
		}

		var open int64
		err := tx.Model(&entity.HostRequest{}).
			Where("user_id = ? AND status = ?", req.UserID, entity.StatusPending).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return errPendingRequest
		}
		if err := tx.Create(req).Error; err != nil {
			if errors.Is(repository.Translate(err), apperr.ErrConflict) {
				return errPendingRequest
			}
			return err
		}
		return tx.Preload("Specialities").Where("id = ?", req.ID).First(req).Error
	})
}

// Find は専門分野を含めて申請を取得します。
func (r *HostRequestRepository) Find(ctx context.Context, id string) (*entity.HostRequest, error) {
	var out entity.HostRequest
	if err := r.DB(ctx).Preload("Specialities").Where("id = ?", id).First(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return &out, nil
}

// List は専門分野を含めてすべての申請を新しい順に返します。
func (r *HostRequestRepository) List(ctx context.Context) ([]entity.HostRequest, error) {
	var out []entity.HostRequest
	if err := r.DB(ctx).Preload("Specialities").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// ListApproved は承認済みの申請をユーザーと専門分野付きでホスト歴の長い順に返します。
func (r *HostRequestRepository) ListApproved(ctx context.Context) ([]entity.HostRequest, error) {
	var out []entity.HostRequest
	err := r.DB(ctx).Preload("User").Preload("Specialities").
		Where("status = ?", entity.StatusApproved).
		Order("host_since").Find(&out).Error
	if err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// Approve は審査中の申請を承認し、申請者のロールをHostにします。
// 申請の更新とロールの変更は1つのトランザクションで行います。
func (r *HostRequestRepository) Approve(ctx context.Context, id string, at time.Time) (*entity.HostRequest, error) {
	return r.review(ctx, id, map[string]any{"status": entity.StatusApproved, "host_since": at}, func(tx *gorm.DB, req *entity.HostRequest) error {
		res := tx.Model(&authentity.User{}).Where("id = ?", req.UserID).Update("role", authentity.RoleHost)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user", apperr.ErrNotFound)
		}
		return nil
	})
}

// Reject は審査中の申請を却下します。
func (r *HostRequestRepository) Reject(ctx context.Context, id string) (*entity.HostRequest, error) {
	return r.review(ctx, id, map[string]any{"status": entity.StatusRejected}, nil)
}

// review はPendingの申請だけを条件付きUPDATEで遷移させ、thenを同じトランザクションで実行します。
func (r *HostRequestRepository) review(ctx context.Context, id string, set map[string]any, then func(tx *gorm.DB, req *entity.HostRequest) error) (*entity.HostRequest, error) {
	var out entity.HostRequest
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		res := tx.Model(&entity.HostRequest{}).
			Where("id = ? AND status = ?", id, entity.StatusPending).
			Updates(set)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: only pending requests can be reviewed", apperr.ErrValidation)
		}
		if then != nil {
			if err := then(tx, &out); err != nil {
				return err
			}
		}
		return tx.Preload("Specialities").Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SpecialityRepository は専門分野の永続化を担います。
type SpecialityRepository struct {
	*repository.Repository[entity.Speciality]
}

// NewSpecialityRepository はSpecialityRepositoryの新しいインスタンスを生成します。
func NewSpecialityRepository(db *gorm.DB) *SpecialityRepository {
	return &SpecialityRepository{Repository: repository.New[entity.Speciality](db)}
}

// ListByName は専門分野を名前順で返します。
func (r *SpecialityRepository) ListByName(ctx context.Context) ([]entity.Speciality, error) {
	var out []entity.Speciality
	if err := r.DB(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}

// FindByIDs は指定されたIDの専門分野を返します。存在しないIDは無視されます。
func (r *SpecialityRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.Speciality, error) {
	out := []entity.Speciality{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.DB(ctx).Where("id IN ?", ids).Order("name").Find(&out).Error; err != nil {
		return nil, repository.Translate(err)
	}
	return out, nil
}
