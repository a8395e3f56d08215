// Package entity は学生向けイベントと参加者を定義します。
package entity

import (
	"time"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Category はイベントの種類です。
type Category string

const (
	CategorySocial   Category = "Social"
	CategoryCultural Category = "Cultural"
	CategorySports   Category = "Sports"
	CategoryAcademic Category = "Academic"
	CategoryTravel   Category = "Travel"
	CategoryParty    Category = "Party"
	CategoryOther    Category = "Other"
)

// Event はユーザーが作成する集まりです。MaxAttendeesがnilなら定員はありません。
type Event struct {
	model.Base
	Title          string           `gorm:"size:200;not null" json:"title"`
	Date           time.Time        `gorm:"not null;index" json:"date"`
	Location       string           `gorm:"size:200;not null" json:"location"`
	Address        string           `gorm:"size:300" json:"address"`
	City           string           `gorm:"size:100;not null;index" json:"city"`
	Country        string           `gorm:"size:100;not null;index" json:"country"`
	AttendeesCount int              `gorm:"not null;default:0" json:"attendees_count"`
	MaxAttendees   *int             `json:"max_attendees"`
	Category       Category         `gorm:"size:20;not null" json:"category"`
	Description    string           `gorm:"type:text" json:"description"`
	ImageURL       string           `gorm:"size:500" json:"image_url"`
	Tags           []string         `gorm:"type:text;serializer:json" json:"tags"`
	CreatorID      string           `gorm:"size:36;not null;index" json:"creator_id"`
	Creator        *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Full は定員に達しているかを返します。
func (e *Event) Full() bool {
	return e.MaxAttendees != nil && e.AttendeesCount >= *e.MaxAttendees
}

// Participant はユーザーがイベントに参加したことを表します。
type Participant struct {
	model.Base
	EventID string           `gorm:"size:36;not null;uniqueIndex:idx_event_participant" json:"event_id"`
	Event   *Event           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID  string           `gorm:"size:36;not null;uniqueIndex:idx_event_participant;index" json:"user_id"`
	User    *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName はイベント参加者のテーブル名を返します。
func (Participant) TableName() string { return "event_participants" }
