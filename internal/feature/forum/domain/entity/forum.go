// Package entity はフォーラムとそのスレッド・メッセージを定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Category はフォーラムの話題です。
type Category string

const (
	CategoryGeneral Category = "General"
	CategoryHousing Category = "Housing"
	CategoryStudies Category = "Studies"
	CategoryTravel  Category = "Travel"
	CategoryEvents  Category = "Events"
	CategoryOther   Category = "Other"
)

// Forum はスレッドをまとめます。通常は留学先の国ごとに作られます。
type Forum struct {
	model.Base
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Country     string           `gorm:"size:100;index" json:"country"`
	Category    Category         `gorm:"size:20;not null" json:"category"`
	CreatedBy   string           `gorm:"size:36;not null;index" json:"created_by"`
	Creator     *authentity.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// Thread はフォーラム内の会話です。
type Thread struct {
	model.Base
	ForumID   string           `gorm:"size:36;not null;index" json:"forum_id"`
	Forum     *Forum           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title     string           `gorm:"size:200;not null" json:"title"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	CreatedBy string           `gorm:"size:36;not null;index" json:"created_by"`
	Creator   *authentity.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName はスレッドのテーブル名を返します。
func (Thread) TableName() string { return "forum_threads" }

// Message はスレッドへの投稿です。返信はParentMessageIDで返信先のメッセージを指します。
type Message struct {
	model.Base
	ThreadID        string           `gorm:"size:36;not null;index" json:"thread_id"`
	Thread          *Thread          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Content         string           `gorm:"type:text;not null" json:"content"`
	ParentMessageID *string          `gorm:"size:36;index" json:"parent_message_id"`
	ParentMessage   *Message         `gorm:"foreignKey:ParentMessageID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy       string           `gorm:"size:36;not null;index" json:"created_by"`
	Creator         *authentity.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName はメッセージのテーブル名を返します。
func (Message) TableName() string { return "forum_messages" }
