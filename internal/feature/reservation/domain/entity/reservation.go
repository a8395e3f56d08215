// Package entity はゲストによる宿泊施設の予約を定義します。
package entity

import (
	"math"
	"time"

	accentity "erasmus_backend/internal/feature/accommodation/domain/entity"
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Status は予約の状態です。
type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusCancelled Status = "Cancelled"
)

// billingPeriodDays は請求上の1か月の日数です。
const billingPeriodDays = 30

// Reservation は宿泊施設を[StartDate, EndDate)の期間で予約します。
type Reservation struct {
	model.Base
	StartDate       string                   `gorm:"size:10;not null" json:"start_date"`
	EndDate         string                   `gorm:"size:10;not null" json:"end_date"`
	TotalPrice      float64                  `gorm:"not null" json:"total_price"`
	Status          Status                   `gorm:"size:20;not null;default:Pending;index" json:"status"`
	UserID          string                   `gorm:"size:36;not null;index" json:"user_id"`
	User            *authentity.User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AccommodationID string                   `gorm:"size:36;not null;index" json:"accommodation_id"`
	Accommodation   *accentity.Accommodation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TotalPrice は開始した30日ごとに月額を請求した合計です。
func TotalPrice(pricePerMonth float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	periods := math.Ceil(days / billingPeriodDays)
	return pricePerMonth * periods
}
