package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"erasmus_backend/internal/feature/moderation/domain/entity"
	"erasmus_backend/internal/shared/apperr"
)

// mockImageInspector はテスト用のImageInspectorモック実装です。
type mockImageInspector struct {
	inspectFn func(ctx context.Context, imageData []byte) (entity.Verdict, error)
}

func (m *mockImageInspector) InspectImage(ctx context.Context, imageData []byte) (entity.Verdict, error) {
	return m.inspectFn(ctx, imageData)
}

// mockTextClassifier はテスト用のTextClassifierモック実装です。
type mockTextClassifier struct {
	classifyFn func(ctx context.Context, text string) (entity.Verdict, error)
	calls      int
}

func (m *mockTextClassifier) ClassifyText(ctx context.Context, text string) (entity.Verdict, error) {
	m.calls++
	return m.classifyFn(ctx, text)
}

func TestModerationUsecase_CheckImage(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		verdict   entity.Verdict
		err       error
		wantErrIs error
		wantErr   bool
	}{
		{name: "allowed", data: []byte{1}, verdict: entity.Allow()},
		{name: "rejected", data: []byte{1}, verdict: entity.Reject("adult"), wantErrIs: apperr.ErrValidation, wantErr: true},
		{name: "empty image", data: nil, wantErrIs: apperr.ErrValidation, wantErr: true},
		{name: "service failure", data: []byte{1}, err: errors.New("vision down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &mockImageInspector{
				inspectFn: func(ctx context.Context, imageData []byte) (entity.Verdict, error) {
					return tt.verdict, tt.err
				},
			}
			uc := NewModerationUsecase(images, AllowAll())

			err := uc.CheckImage(context.Background(), tt.data)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else {
				assert.NotErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestModerationUsecase_CheckText(t *testing.T) {
	t.Run("unsafe text", func(t *testing.T) {
		texts := &mockTextClassifier{
			classifyFn: func(ctx context.Context, text string) (entity.Verdict, error) {
				return entity.Reject("UNSAFE"), nil
			},
		}
		uc := NewModerationUsecase(AllowAll(), texts)

		err := uc.CheckText(context.Background(), "something nasty")

		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "validation error: content rejected by moderation", err.Error())
	})

	t.Run("blank text is not sent to the classifier", func(t *testing.T) {
		texts := &mockTextClassifier{
			classifyFn: func(ctx context.Context, text string) (entity.Verdict, error) {
				return entity.Reject("UNSAFE"), nil
			},
		}
		uc := NewModerationUsecase(AllowAll(), texts)

		assert.NoError(t, uc.CheckText(context.Background(), "   "))
		assert.Equal(t, 0, texts.calls)
	})

	t.Run("allow all", func(t *testing.T) {
		uc := NewModerationUsecase(AllowAll(), AllowAll())

		assert.NoError(t, uc.CheckText(context.Background(), "hello"))
		assert.NoError(t, uc.CheckImage(context.Background(), []byte{0xff}))
	})
}
