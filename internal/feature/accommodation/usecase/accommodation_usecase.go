// Package usecase はaccommodationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"erasmus_backend/internal/feature/accommodation/domain/entity"
	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
	"erasmus_backend/internal/shared/search"
)

// imageFolder は宿泊施設の画像を保存するフォルダー名です。
const imageFolder = "accommodations"

// AccommodationRepository は宿泊施設の永続化層を抽象化します。
type AccommodationRepository interface {
	GetAll(ctx context.Context) ([]entity.Accommodation, error)
	GetByID(ctx context.Context, id string) (*entity.Accommodation, error)
	Create(ctx context.Context, a *entity.Accommodation) error
	Update(ctx context.Context, a *entity.Accommodation, fields repository.Fields) error
	Delete(ctx context.Context, a *entity.Accommodation) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Accommodation, error)
	Countries(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, country string) ([]string, error)
}

// ImageRepository は宿泊施設の画像の永続化層を抽象化します。
type ImageRepository interface {
	// AddWithLimit は画像数がlimit未満の場合のみimgを作成します。確認と作成は不可分です。
	AddWithLimit(ctx context.Context, img *entity.Image, limit int64) error
	ListByAccommodation(ctx context.Context, accommodationID string) ([]entity.Image, error)
	CountByAccommodation(ctx context.Context, accommodationID string) (int64, error)
}

// BookingCalendar はキャンセルされていない予約の期間を返します（reservationフィーチャーが実装）。
type BookingCalendar interface {
	BookedRanges(ctx context.Context, accommodationID string) ([]entity.DateRange, error)
}

// ImageModerator はアップロード画像の審査を抽象化します。
type ImageModerator interface {
	CheckImage(ctx context.Context, data []byte) error
}

// ImageStore は画像の保存先を抽象化します。
type ImageStore interface {
	SaveImage(ctx context.Context, folder string, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

// AccommodationInput は宿泊施設の作成入力です。
type AccommodationInput struct {
	Title             string      `json:"title" binding:"required,max=200"`
	Description       string      `json:"description" binding:"max=5000"`
	Address           string      `json:"address" binding:"required,max=300"`
	City              string      `json:"city" binding:"required,max=100"`
	Country           string      `json:"country" binding:"required,max=100"`
	PricePerMonth     float64     `json:"price_per_month" binding:"required,gt=0"`
	NumberOfRooms     int         `json:"number_of_rooms" binding:"gte=0"`
	Bathrooms         int         `json:"bathrooms" binding:"gte=0"`
	SquareMeters      float64     `json:"square_meters" binding:"gte=0"`
	HasWifi           bool        `json:"has_wifi"`
	AvailableFrom     string      `json:"available_from" binding:"required,datetime=2006-01-02"`
	AvailableTo       string      `json:"available_to" binding:"required,datetime=2006-01-02"`
	AccommodationType entity.Type `json:"accommodation_type" binding:"required,oneof=Apartment House Room Studio Residence"`
}

// AccommodationPatch は宿泊施設の部分更新です。nilのフィールドは変更しません。
type AccommodationPatch struct {
	Title             *string      `json:"title" binding:"omitempty,min=1,max=200"`
	Description       *string      `json:"description" binding:"omitempty,max=5000"`
	Address           *string      `json:"address" binding:"omitempty,min=1,max=300"`
	City              *string      `json:"city" binding:"omitempty,min=1,max=100"`
	Country           *string      `json:"country" binding:"omitempty,min=1,max=100"`
	PricePerMonth     *float64     `json:"price_per_month" binding:"omitempty,gt=0"`
	NumberOfRooms     *int         `json:"number_of_rooms" binding:"omitempty,gte=0"`
	Bathrooms         *int         `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareMeters      *float64     `json:"square_meters" binding:"omitempty,gte=0"`
	HasWifi           *bool        `json:"has_wifi"`
	AvailableFrom     *string      `json:"available_from" binding:"omitempty,datetime=2006-01-02"`
	AvailableTo       *string      `json:"available_to" binding:"omitempty,datetime=2006-01-02"`
	AccommodationType *entity.Type `json:"accommodation_type" binding:"omitempty,oneof=Apartment House Room Studio Residence"`
}

// accommodationUsecase は宿泊施設のビジネスロジックを実装します。
type accommodationUsecase struct {
	accommodations AccommodationRepository
	images         ImageRepository
	calendar       BookingCalendar
	moderator      ImageModerator
	store          ImageStore
	matcher        *search.Matcher
}

// NewAccommodationUsecase はaccommodationUsecaseの新しいインスタンスを生成します。
func NewAccommodationUsecase(
	accommodations AccommodationRepository,
	images ImageRepository,
	calendar BookingCalendar,
	moderator ImageModerator,
	store ImageStore,
) *accommodationUsecase {
	return &accommodationUsecase{
		accommodations: accommodations,
		images:         images,
		calendar:       calendar,
		moderator:      moderator,
		store:          store,
		matcher:        search.NewMatcher(search.AccommodationThreshold),
	}
}

// List はすべての宿泊施設を返します。queryが空でなければタイトルのあいまい検索で絞り込みます。
func (u *accommodationUsecase) List(ctx context.Context, query string) ([]entity.Accommodation, error) {
	all, err := u.accommodations.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(u.matcher, query, all, func(a entity.Accommodation) string { return a.Title }), nil
}

// Get はIDで宿泊施設を取得します。
func (u *accommodationUsecase) Get(ctx context.Context, id string) (*entity.Accommodation, error) {
	a, err := u.accommodations.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "accommodation")
	}
	return a, nil
}

// Create はactorをオーナーとして宿泊施設を登録します。HostまたはAdministratorのみ作成できます。
func (u *accommodationUsecase) Create(ctx context.Context, actor *authentity.User, in AccommodationInput) (*entity.Accommodation, error) {
	if !actor.HasRole(authentity.RoleHost, authentity.RoleAdministrator) {
		return nil, fmt.Errorf("%w: only hosts can publish accommodations", apperr.ErrForbidden)
	}
	if err := model.DateBefore("available_from", in.AvailableFrom, "available_to", in.AvailableTo); err != nil {
		return nil, err
	}
	a := &entity.Accommodation{
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Address:           strings.TrimSpace(in.Address),
		City:              strings.TrimSpace(in.City),
		Country:           strings.TrimSpace(in.Country),
		PricePerMonth:     in.PricePerMonth,
		NumberOfRooms:     in.NumberOfRooms,
		Bathrooms:         in.Bathrooms,
		SquareMeters:      in.SquareMeters,
		HasWifi:           in.HasWifi,
		AvailableFrom:     in.AvailableFrom,
		AvailableTo:       in.AvailableTo,
		AccommodationType: in.AccommodationType,
		OwnerID:           actor.ID,
	}
	if err := u.accommodations.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update はオーナーまたは管理者による部分更新を行います。更新後の期間も検証します。
func (u *accommodationUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch AccommodationPatch) (*entity.Accommodation, error) {
	a, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from, to := a.AvailableFrom, a.AvailableTo
	if patch.AvailableFrom != nil {
		from = *patch.AvailableFrom
	}
	if patch.AvailableTo != nil {
		to = *patch.AvailableTo
	}
	if err := model.DateBefore("available_from", from, "available_to", to); err != nil {
		return nil, err
	}

	fields := repository.Fields{}
	repository.SetIf(fields, "title", trimmed(patch.Title))
	repository.SetIf(fields, "description", patch.Description)
	repository.SetIf(fields, "address", trimmed(patch.Address))
	repository.SetIf(fields, "city", trimmed(patch.City))
	repository.SetIf(fields, "country", trimmed(patch.Country))
	repository.SetIf(fields, "price_per_month", patch.PricePerMonth)
	repository.SetIf(fields, "number_of_rooms", patch.NumberOfRooms)
	repository.SetIf(fields, "bathrooms", patch.Bathrooms)
	repository.SetIf(fields, "square_meters", patch.SquareMeters)
	repository.SetIf(fields, "has_wifi", patch.HasWifi)
	repository.SetIf(fields, "available_from", patch.AvailableFrom)
	repository.SetIf(fields, "available_to", patch.AvailableTo)
	repository.SetIf(fields, "accommodation_type", patch.AccommodationType)

	if err := u.accommodations.Update(ctx, a, fields); err != nil {
		return nil, apperr.NotFound(err, "accommodation")
	}
	return a, nil
}

// Delete はオーナーまたは管理者が宿泊施設を削除します。
func (u *accommodationUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	a, err := u.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.accommodations.Delete(ctx, a)
}

// ListByOwner はユーザーが所有する宿泊施設を返します。
func (u *accommodationUsecase) ListByOwner(ctx context.Context, ownerID string) ([]entity.Accommodation, error) {
	return u.accommodations.ListByOwner(ctx, ownerID)
}

// Countries は宿泊施設のある国を返します。
func (u *accommodationUsecase) Countries(ctx context.Context) ([]string, error) {
	return u.accommodations.Countries(ctx)
}

// Cities は指定国で宿泊施設のある都市を返します。
func (u *accommodationUsecase) Cities(ctx context.Context, country string) ([]string, error) {
	if strings.TrimSpace(country) == "" {
		return nil, fmt.Errorf("%w: country is required", apperr.ErrValidation)
	}
	return u.accommodations.Cities(ctx, country)
}

// UnavailableDates はキャンセルされていない予約で埋まっている期間を返します。
func (u *accommodationUsecase) UnavailableDates(ctx context.Context, id string) ([]entity.DateRange, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.calendar.BookedRanges(ctx, id)
}

// Images は宿泊施設の画像を返します。
func (u *accommodationUsecase) Images(ctx context.Context, id string) ([]entity.Image, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.images.ListByAccommodation(ctx, id)
}

// AddImage は審査を通過した画像を保存し、宿泊施設に追加します。1件あたりentity.MaxImagesまでです。
// 画像の登録に失敗した場合、保存したファイルは削除します。
func (u *accommodationUsecase) AddImage(ctx context.Context, actor *authentity.User, id string, data []byte) (*entity.Image, error) {
	a, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	// 審査APIを呼ぶ前に上限を確認する。確定的な判定はAddWithLimitで行う
	n, err := u.images.CountByAccommodation(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if n >= entity.MaxImages {
		return nil, fmt.Errorf("%w: an accommodation can have at most %d images", apperr.ErrValidation, entity.MaxImages)
	}
	if err := u.moderator.CheckImage(ctx, data); err != nil {
		return nil, err
	}
	url, err := u.store.SaveImage(ctx, imageFolder, data)
	if err != nil {
		return nil, err
	}
	img := &entity.Image{AccommodationID: a.ID, URL: url}
	if err := u.images.AddWithLimit(ctx, img, entity.MaxImages); err != nil {
		if rmErr := u.store.Remove(context.WithoutCancel(ctx), url); rmErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned image", "url", url, "error", rmErr)
		}
		return nil, err
	}
	slog.InfoContext(ctx, "accommodation image added", "accommodation_id", a.ID, "url", url)
	return img, nil
}

// manageable は宿泊施設を取得し、actorがオーナーまたは管理者であることを確認します。
func (u *accommodationUsecase) manageable(ctx context.Context, actor *authentity.User, id string) (*entity.Accommodation, error) {
	a, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(a.OwnerID) {
		return nil, fmt.Errorf("%w: only the owner can modify this accommodation", apperr.ErrForbidden)
	}
	return a, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
