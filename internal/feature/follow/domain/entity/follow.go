// Package entity はユーザー間のフォロー関係を定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Follow はFollowerIDがFollowingIDをフォローしていることを表します。同じ組み合わせは1件までです。
type Follow struct {
	model.Base
	FollowerID  string           `gorm:"size:36;not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	Follower    *authentity.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID string           `gorm:"size:36;not null;uniqueIndex:idx_follow_edge;index:idx_follow_following" json:"following_id"`
	Following   *authentity.User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// Counts はユーザーのフォロワー数とフォロー数です。
type Counts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// NotificationTypeFollow はフォローされたユーザーに送るリアルタイム通知の種類です。
const NotificationTypeFollow = "follow"

// Notification はフォローされたときに相手に送る通知です。
type Notification struct {
	Type       string `json:"type"`
	FollowerID string `json:"follower_id"`
}
