package di

import (
	"context"
	"log/slog"

	"erasmus_backend/internal/config"
	"erasmus_backend/internal/feature/moderation/adapters/gemini"
	"erasmus_backend/internal/feature/moderation/adapters/vision"
	"erasmus_backend/internal/feature/moderation/usecase"
)

// Moderator は画像とテキストの審査をまとめたものです。
// accommodation・recommendationは画像、review・forumはテキストを利用します。
type Moderator interface {
	CheckImage(ctx context.Context, imageData []byte) error
	CheckText(ctx context.Context, text string) error
}

// NewModerator はMODERATION_ENABLEDに応じて審査を組み立てます。
// 無効な場合は常に許可する実装を返します。戻り値のcloseは必ず呼び出してください。
func NewModerator(ctx context.Context, cfg *config.Config) (Moderator, func(), error) {
	if !cfg.ModerationEnabled {
		slog.Warn("content moderation is disabled")
		allow := usecase.AllowAll()
		return usecase.NewModerationUsecase(allow, allow), func() {}, nil
	}

	images, err := vision.NewVisionImageInspector(ctx)
	if err != nil {
		return nil, nil, err
	}
	texts, err := gemini.NewGeminiTextClassifier(ctx, cfg.GeminiModel)
	if err != nil {
		_ = images.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := images.Close(); err != nil {
			slog.Error("failed to close vision client", "error", err)
		}
	}
	return usecase.NewModerationUsecase(images, texts), closeFn, nil
}
