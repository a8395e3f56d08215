// Package entity はユーザープロフィールの拡張（SNSリンクと話せる言語）を定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// SocialMedia は対応しているSNSです。
type SocialMedia string

const (
	SocialFacebook  SocialMedia = "Facebook"
	SocialInstagram SocialMedia = "Instagram"
	SocialTwitter   SocialMedia = "Twitter"
	SocialLinkedIn  SocialMedia = "LinkedIn"
	SocialTikTok    SocialMedia = "TikTok"
	SocialYouTube   SocialMedia = "YouTube"
	SocialOther     SocialMedia = "Other"
)

// LanguageLevel はCEFRの段階にNativeを加えたものです。
type LanguageLevel string

const (
	LevelA1     LanguageLevel = "A1"
	LevelA2     LanguageLevel = "A2"
	LevelB1     LanguageLevel = "B1"
	LevelB2     LanguageLevel = "B2"
	LevelC1     LanguageLevel = "C1"
	LevelC2     LanguageLevel = "C2"
	LevelNative LanguageLevel = "Native"
)

// SocialMediaLink はプロフィールからユーザーのSNSアカウントへのリンクです。
type SocialMediaLink struct {
	model.Base
	UserID      string            `gorm:"size:36;not null;index" json:"user_id"`
	User        *authentity.User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SocialMedia SocialMedia       `gorm:"size:20;not null" json:"social_media"`
	URL         string            `gorm:"size:500;not null" json:"url"`
}

// UserLanguage はユーザーが話せる言語です。同じ言語はユーザーごとに1件までです。
type UserLanguage struct {
	model.Base
	UserID   string           `gorm:"size:36;not null;uniqueIndex:idx_user_language" json:"user_id"`
	User     *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Language string           `gorm:"size:50;not null;uniqueIndex:idx_user_language" json:"language"`
	Level    LanguageLevel    `gorm:"size:10;not null" json:"level"`
}

// UserScoped は1人のユーザーに属するレコードが実装します。
type UserScoped interface {
	SetUserID(id string)
}

func (l *SocialMediaLink) SetUserID(id string) { l.UserID = id }
func (l *UserLanguage) SetUserID(id string)    { l.UserID = id }
