// Package entity はホストになりたいユーザーの申請を定義します。
package entity

import (
	"time"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Status はホスト申請の審査状態です。
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Speciality はホストが提供する住まいの支援の種類です（例："Student residences"）。
type Speciality struct {
	model.Base
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// HostRequest は管理者にHostロールの付与を求める申請です。
// HostSinceは承認時に設定されます。
type HostRequest struct {
	model.Base
	UserID       string           `gorm:"size:36;not null;index;uniqueIndex:idx_host_requests_pending_user,where:status = 'Pending'" json:"user_id"`
	User         *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Reason       string           `gorm:"type:text;not null" json:"reason"`
	Status       Status           `gorm:"size:20;not null;default:Pending;index" json:"status"`
	HostSince    *time.Time       `json:"host_since"`
	Specialities []Speciality     `gorm:"many2many:host_request_specialities;constraint:OnDelete:CASCADE" json:"specialities"`
}

// NotificationTypeHostRequest は審査されたホスト申請のリアルタイム通知の種類です。
const NotificationTypeHostRequest = "host_request"

// Notification は管理者が申請を審査したときに申請者へ送る通知です。
type Notification struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Status    Status `json:"status"`
}
