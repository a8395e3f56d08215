// Package entity は滞在を終えたゲストのレビューを定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	resentity "erasmus_backend/internal/feature/reservation/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Review は承認された予約のゲストが書きます。1件の予約につきレビューは1件までです。
type Review struct {
	model.Base
	Title         string                 `gorm:"size:200;not null" json:"title"`
	Content       string                 `gorm:"type:text;not null" json:"content"`
	Rating        int                    `gorm:"not null" json:"rating"`
	ReservationID string                 `gorm:"size:36;not null;uniqueIndex" json:"reservation_id"`
	Reservation   *resentity.Reservation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID        string                 `gorm:"size:36;not null;index" json:"user_id"`
	User          *authentity.User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
