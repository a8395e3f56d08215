// Package entity は学生がすすめる場所を定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Category は場所の種類です。
type Category string

const (
	CategoryRestaurant Category = "Restaurant"
	CategoryBar        Category = "Bar"
	CategoryMuseum     Category = "Museum"
	CategoryPark       Category = "Park"
	CategoryShop       Category = "Shop"
	CategoryOther      Category = "Other"
)

// MaxImages は1件のおすすめに登録できる画像の上限です。
const MaxImages = 5

// Recommendation はユーザーが他の人にすすめる場所です。
type Recommendation struct {
	model.Base
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Category    Category         `gorm:"size:20;not null;index" json:"category"`
	Address     string           `gorm:"size:300" json:"address"`
	City        string           `gorm:"size:100;not null;index" json:"city"`
	Country     string           `gorm:"size:100;not null;index" json:"country"`
	Rating      int              `gorm:"not null" json:"rating"`
	Tags        []string         `gorm:"type:text;serializer:json" json:"tags"`
	UserID      string           `gorm:"size:36;not null;index" json:"user_id"`
	User        *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Image はおすすめの画像です。
type Image struct {
	model.Base
	RecommendationID string          `gorm:"size:36;not null;index" json:"recommendation_id"`
	Recommendation   *Recommendation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	URL              string          `gorm:"size:500;not null" json:"url"`
}

// TableName はおすすめ用のテーブル名を返します。
func (Image) TableName() string { return "recommendation_images" }
