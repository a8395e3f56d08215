// Package model はすべてのエンティティが埋め込む共通カラムを定義します。
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base はUUIDの主キーとタイムスタンプを持つ共通フィールドです。
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate はIDが未設定の場合に新しいUUIDを割り当てます。
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// GetID は主キーを返します。
func (b *Base) GetID() string {
	return b.ID
}
