// Package repository はすべてのエンティティで共有する汎用的な永続化ゲートウェイを提供します。
//
// エンティティごとのリポジトリは Repository[T] を埋め込み、属性による検索メソッドを
// 少数だけ追加します。基本の操作（GetAll/GetByID/Create/Update/Delete/Exists）は
// 再実装しません。
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"erasmus_backend/internal/shared/apperr"
)

// PostgreSQLのSQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Entity は主キーを返せるエンティティです。model.Base を埋め込んだポインタ型が満たします。
type Entity interface {
	GetID() string
}

// Fields は部分更新で変更するカラム名と値の組です。
type Fields map[string]any

// SetIf はvがnilでなければcolumnに*vを設定します。JSONで省略されたフィールドを更新対象から外すために使います。
func SetIf[V any](f Fields, column string, v *V) {
	if v != nil {
		f[column] = *v
	}
}

// Repository はGORMを使った型パラメータ付きのCRUDゲートウェイです。
// 各操作は1つのトランザクション内で実行され、成功時にコミット、失敗時にロールバックされます。
type Repository[T any] struct {
	db *gorm.DB
}

// New は指定されたgorm.DB接続でRepositoryを生成します。
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB はコンテキスト付きのセッションを返します。エンティティ固有の検索で使用します。
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Transaction はfnをスコープ付きトランザクション内で実行し、エラーを分類体系に変換します。
// fnがエラーを返すかパニックした場合はロールバックされます。
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return Translate(r.db.WithContext(ctx).Transaction(fn))
}

// GetAll はすべてのレコードを返します。
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Order("created_at").Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID は主キーでレコードを取得します。存在しない場合はapperr.ErrNotFoundを返します。
func (r *Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var out T
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create はレコードを永続化します。IDが未設定なら新しいUUIDが割り当てられ、
// 保存後の状態（デフォルト値を含む）がrecに反映されます。
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", apperr.ErrValidation)
	}
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", idOf(rec)).First(rec).Error
	})
}

// Update はfieldsで指定されたカラムのみを更新し、書き込み後の状態をrecに再読込します。
// 指定されていないカラムは以前の値を保持します。
func (r *Repository[T]) Update(ctx context.Context, rec *T, fields Fields) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", apperr.ErrValidation)
	}
	id := idOf(rec)
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(rec).Where("id = ?", id).Updates(map[string]any(fields))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Where("id = ?", id).First(rec).Error
	})
}

// Delete はレコードを物理削除します。既に存在しないレコードの扱いは呼び出し側の責務です。
func (r *Repository[T]) Delete(ctx context.Context, rec *T) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", apperr.ErrValidation)
	}
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Where("id = ?", idOf(rec)).Delete(rec).Error
	})
}

// Exists はconditions（カラム名 → 値）に一致するレコードが存在するかを返します。
func (r *Repository[T]) Exists(ctx context.Context, conditions Fields) (bool, error) {
	var count int64
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Model(new(T)).Where(map[string]any(conditions)).Limit(1).Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Translate はストレージのエラーをapperrの分類に変換します。
// 変換後のメッセージにはSQLやドライバーの詳細を含めません。
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrForbidden):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: resource already exists", apperr.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced record does not exist", apperr.ErrValidation)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%w: resource already exists", apperr.ErrConflict)
	case errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation:
		return fmt.Errorf("%w: referenced record does not exist", apperr.ErrValidation)
	}
	return err
}

func idOf[T any](rec *T) string {
	if e, ok := any(rec).(Entity); ok {
		return e.GetID()
	}
	return ""
}
