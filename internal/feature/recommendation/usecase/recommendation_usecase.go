// Package usecase はrecommendationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/recommendation/domain/entity"
	"erasmus_backend/internal/platform/repository"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
	"erasmus_backend/internal/shared/search"
)

// imageFolder はおすすめの画像を保存するフォルダー名です。
const imageFolder = "recommendations"

// RecommendationRepository はおすすめの永続化層を抽象化します。
type RecommendationRepository interface {
	GetAll(ctx context.Context) ([]entity.Recommendation, error)
	GetByID(ctx context.Context, id string) (*entity.Recommendation, error)
	Create(ctx context.Context, r *entity.Recommendation) error
	Update(ctx context.Context, r *entity.Recommendation, fields repository.Fields) error
	Delete(ctx context.Context, r *entity.Recommendation) error
	ListByUser(ctx context.Context, userID string) ([]entity.Recommendation, error)
}

// ImageRepository はおすすめの画像の永続化層を抽象化します。
type ImageRepository interface {
	// AddWithLimit は画像数がlimit未満の場合のみimgを作成します。確認と作成は不可分です。
	AddWithLimit(ctx context.Context, img *entity.Image, limit int64) error
	ListByRecommendation(ctx context.Context, recommendationID string) ([]entity.Image, error)
	CountByRecommendation(ctx context.Context, recommendationID string) (int64, error)
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

// RecommendationInput はおすすめの作成入力です。
type RecommendationInput struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Category    entity.Category `json:"category" binding:"required,oneof=Restaurant Bar Museum Park Shop Other"`
	Address     string          `json:"address" binding:"max=300"`
	City        string          `json:"city" binding:"required,max=100"`
	Country     string          `json:"country" binding:"required,max=100"`
	Rating      int             `json:"rating" binding:"required,gte=1,lte=5"`
	Tags        []string        `json:"tags" binding:"max=20,dive,min=1,max=50"`
}

// RecommendationPatch はおすすめの部分更新です。
type RecommendationPatch struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *entity.Category `json:"category" binding:"omitempty,oneof=Restaurant Bar Museum Park Shop Other"`
	Address     *string          `json:"address" binding:"omitempty,max=300"`
	City        *string          `json:"city" binding:"omitempty,min=1,max=100"`
	Country     *string          `json:"country" binding:"omitempty,min=1,max=100"`
	Rating      *int             `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Tags        *[]string        `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// recommendationUsecase はおすすめのビジネスロジックを実装します。
type recommendationUsecase struct {
	recommendations RecommendationRepository
	images          ImageRepository
	moderator       ImageModerator
	store           ImageStore
	matcher         *search.Matcher
}

// NewRecommendationUsecase はrecommendationUsecaseの新しいインスタンスを生成します。
func NewRecommendationUsecase(
	recommendations RecommendationRepository,
	images ImageRepository,
	moderator ImageModerator,
	store ImageStore,
) *recommendationUsecase {
	return &recommendationUsecase{
		recommendations: recommendations,
		images:          images,
		moderator:       moderator,
		store:           store,
		matcher:         search.NewMatcher(search.RecommendationThreshold),
	}
}

// List はおすすめを返します。queryが空でなければタイトルと説明のあいまい検索で絞り込みます。
func (u *recommendationUsecase) List(ctx context.Context, query string) ([]entity.Recommendation, error) {
	all, err := u.recommendations.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return search.Filter(u.matcher, query, all, func(r entity.Recommendation) string {
		return r.Title + " " + r.Description
	}), nil
}

// Get はIDでおすすめを取得します。
func (u *recommendationUsecase) Get(ctx context.Context, id string) (*entity.Recommendation, error) {
	r, err := u.recommendations.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound(err, "recommendation")
	}
	return r, nil
}

// Create はactorを投稿者としておすすめを登録します。
func (u *recommendationUsecase) Create(ctx context.Context, actor *authentity.User, in RecommendationInput) (*entity.Recommendation, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrValidation)
	}
	r := &entity.Recommendation{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		Country:     strings.TrimSpace(in.Country),
		Rating:      in.Rating,
		Tags:        model.NormalizeTags(in.Tags),
		UserID:      actor.ID,
	}
	if err := u.recommendations.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update は投稿者または管理者による部分更新を行います。
func (u *recommendationUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch RecommendationPatch) (*entity.Recommendation, error) {
	r, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil && (*patch.Rating < 1 || *patch.Rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrValidation)
	}

	fields := repository.Fields{}
	if patch.Title != nil {
		fields["title"] = strings.TrimSpace(*patch.Title)
	}
	repository.SetIf(fields, "description", patch.Description)
	repository.SetIf(fields, "category", patch.Category)
	repository.SetIf(fields, "address", patch.Address)
	repository.SetIf(fields, "city", patch.City)
	repository.SetIf(fields, "country", patch.Country)
	repository.SetIf(fields, "rating", patch.Rating)
	if patch.Tags != nil {
		tags, err := model.TagsColumn(*patch.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = tags
	}

	if err := u.recommendations.Update(ctx, r, fields); err != nil {
		return nil, apperr.NotFound(err, "recommendation")
	}
	return r, nil
}

// Delete は投稿者または管理者がおすすめを削除します。
func (u *recommendationUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	r, err := u.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.recommendations.Delete(ctx, r)
}

// ListByUser はユーザーのおすすめを返します。
func (u *recommendationUsecase) ListByUser(ctx context.Context, userID string) ([]entity.Recommendation, error) {
	return u.recommendations.ListByUser(ctx, userID)
}

// Images はおすすめの画像を返します。
func (u *recommendationUsecase) Images(ctx context.Context, id string) ([]entity.Image, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return nil, err
	}
	return u.images.ListByRecommendation(ctx, id)
}

// AddImage は審査を通過した画像を保存し、おすすめに追加します。1件あたりentity.MaxImagesまでです。
// 登録に失敗した場合は保存したファイルを削除します。
func (u *recommendationUsecase) AddImage(ctx context.Context, actor *authentity.User, id string, data []byte) (*entity.Image, error) {
	r, err := u.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	n, err := u.images.CountByRecommendation(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if n >= entity.MaxImages {
		return nil, fmt.Errorf("%w: a recommendation can have at most %d images", apperr.ErrValidation, entity.MaxImages)
	}
	if err := u.moderator.CheckImage(ctx, data); err != nil {
		return nil, err
	}
	url, err := u.store.SaveImage(ctx, imageFolder, data)
	if err != nil {
		return nil, err
	}
	img := &entity.Image{RecommendationID: r.ID, URL: url}
	if err := u.images.AddWithLimit(ctx, img, entity.MaxImages); err != nil {
		if rmErr := u.store.Remove(context.WithoutCancel(ctx), url); rmErr != nil {
			slog.WarnContext(ctx, "failed to remove orphaned image", "url", url, "error", rmErr)
		}
		return nil, err
	}
	slog.InfoContext(ctx, "recommendation image added", "recommendation_id", r.ID, "url", url)
	return img, nil
}

// manageable はおすすめを取得し、actorが投稿者または管理者であることを確認します。
func (u *recommendationUsecase) manageable(ctx context.Context, actor *authentity.User, id string) (*entity.Recommendation, error) {
	r, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		return nil, fmt.Errorf("%w: only the author can modify this recommendation", apperr.ErrForbidden)
	}
	return r, nil
}
