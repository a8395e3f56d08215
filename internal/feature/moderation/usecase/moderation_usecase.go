// Package usecase はmoderationフィーチャーのビジネスロジックを実装します。
// 画像はVision SafeSearch、テキストはGeminiの分類で審査し、拒否されたコンテンツはapperr.ErrValidationになります。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"erasmus_backend/internal/feature/moderation/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// ImageInspector は画像を審査します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ImageInspector interface {
	InspectImage(ctx context.Context, imageData []byte) (entity.Verdict, error)
}

// TextClassifier はテキストを審査します。
type TextClassifier interface {
	ClassifyText(ctx context.Context, text string) (entity.Verdict, error)
}

// allowAll は審査を無効にした環境（MODERATION_ENABLED=false）で使う、常に許可する実装です。
type allowAll struct{}

func (allowAll) InspectImage(context.Context, []byte) (entity.Verdict, error) {
	return entity.Allow(), nil
}

func (allowAll) ClassifyText(context.Context, string) (entity.Verdict, error) {
	return entity.Allow(), nil
}

// AllowAll は常に許可するImageInspector兼TextClassifierを返します。
func AllowAll() interface {
	ImageInspector
	TextClassifier
} {
	return allowAll{}
}

// moderationUsecase はコンテンツ審査を提供します。
type moderationUsecase struct {
	images ImageInspector
	texts  TextClassifier
}

// NewModerationUsecase はmoderationUsecaseの新しいインスタンスを生成します。
func NewModerationUsecase(images ImageInspector, texts TextClassifier) *moderationUsecase {
	return &moderationUsecase{images: images, texts: texts}
}

// CheckImage は画像を審査し、不適切な場合はapperr.ErrValidationを返します。
// 審査サービス自体の障害はそのまま返します（fail closed）。
func (u *moderationUsecase) CheckImage(ctx context.Context, imageData []byte) error {
	if len(imageData) == 0 {
		return fmt.Errorf("%w: image data is empty", apperr.ErrValidation)
	}
	v, err := u.images.InspectImage(ctx, imageData)
	if err != nil {
		return fmt.Errorf("image moderation failed: %w", err)
	}
	if !v.Allowed {
		slog.WarnContext(ctx, "image rejected by moderation", "reason", v.Reason)
		return fmt.Errorf("%w: image rejected by content moderation (%s)", apperr.ErrValidation, v.Reason)
	}
	return nil
}

// CheckText はテキストを審査し、不適切な場合はapperr.ErrValidationを返します。空白のみのテキストは審査しません。
func (u *moderationUsecase) CheckText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	v, err := u.texts.ClassifyText(ctx, text)
	if err != nil {
		return fmt.Errorf("text moderation failed: %w", err)
	}
	if !v.Allowed {
		slog.WarnContext(ctx, "text rejected by moderation", "reason", v.Reason)
		return fmt.Errorf("%w: content rejected by moderation", apperr.ErrValidation)
	}
	return nil
}
