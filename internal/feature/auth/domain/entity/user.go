// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

import (
	"erasmus_backend/internal/shared/model"
)

// User はプラットフォームの登録ユーザーです。
type User struct {
	model.Base

	// Name は名です。
	Name string `gorm:"size:100;not null"`

	// LastName は姓です。
	LastName string `gorm:"size:100"`

	// Mail はログインに使うメールアドレスで、全ユーザーで一意です。
	Mail string `gorm:"uniqueIndex;size:255;not null"`

	// Password はパスワードのbcryptハッシュです。
	// 平文は保存せず、シリアライズもしません。
	Password string `gorm:"size:255;not null"`

	// Role は大まかな認可を制御します。
	Role Role `gorm:"size:20;not null;default:User"`

	Biography      string `gorm:"type:text"`
	AvatarURL      string `gorm:"size:500"`
	School         string `gorm:"size:200"`
	Degree         string `gorm:"size:200"`
	Nationality    string `gorm:"size:100"`
	City           string `gorm:"size:100"`
	ErasmusCountry string `gorm:"size:100"`
	ErasmusDate    string `gorm:"size:10"` // ISO 8601の日付（YYYY-MM-DD）
	Phone          string `gorm:"size:30"`
}

// HasRole はユーザーのロールがrolesのいずれかと完全に一致するかを返します。
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin はユーザーがAdministratorかを返します。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// CanManage はownerIDが所有するレコードをユーザーが変更できるかを返します。
// 所有者本人とAdministratorが変更できます。
func (u *User) CanManage(ownerID string) bool {
	return u.ID == ownerID || u.IsAdmin()
}
