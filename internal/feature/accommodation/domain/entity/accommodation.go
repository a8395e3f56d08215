// Package entity はホストが提供する宿泊施設とその画像を定義します。
package entity

import (
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/shared/model"
)

// Type は住居の種類です。
type Type string

const (
	TypeApartment Type = "Apartment"
	TypeHouse     Type = "House"
	TypeRoom      Type = "Room"
	TypeStudio    Type = "Studio"
	TypeResidence Type = "Residence"
)

// MaxImages は1件の宿泊施設に登録できる画像の上限です。
const MaxImages = 5

// Accommodation はホストが所有する物件です。AvailableFromからAvailableToの間で予約できます。
type Accommodation struct {
	model.Base
	Title             string           `gorm:"size:200;not null" json:"title"`
	Description       string           `gorm:"type:text" json:"description"`
	Address           string           `gorm:"size:300;not null" json:"address"`
	City              string           `gorm:"size:100;not null;index" json:"city"`
	Country           string           `gorm:"size:100;not null;index" json:"country"`
	PricePerMonth     float64          `gorm:"not null" json:"price_per_month"`
	NumberOfRooms     int              `gorm:"not null;default:1" json:"number_of_rooms"`
	Bathrooms         int              `gorm:"not null;default:1" json:"bathrooms"`
	SquareMeters      float64          `json:"square_meters"`
	HasWifi           bool             `gorm:"not null;default:false" json:"has_wifi"`
	AvailableFrom     string           `gorm:"size:10;not null" json:"available_from"`
	AvailableTo       string           `gorm:"size:10;not null" json:"available_to"`
	AccommodationType Type             `gorm:"size:20;not null" json:"accommodation_type"`
	OwnerID           string           `gorm:"size:36;not null;index" json:"owner_id"`
	Owner             *authentity.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Image は宿泊施設の画像です。
type Image struct {
	model.Base
	AccommodationID string         `gorm:"size:36;not null;index" json:"accommodation_id"`
	Accommodation   *Accommodation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	URL             string         `gorm:"size:500;not null" json:"url"`
}

// TableName は宿泊施設用のテーブル名を返します。
func (Image) TableName() string { return "accommodation_images" }

// DateRange はYYYY-MM-DD形式の期間です。開始日を含み、終了日を含みません。
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
