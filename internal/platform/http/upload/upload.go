// Package upload はmultipartリクエストからの画像読み込みを提供します。
package upload

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"erasmus_backend/internal/platform/storage"
	"erasmus_backend/internal/shared/apperr"
)

// DefaultField は画像ファイルを受け取るフォームフィールド名です。
const DefaultField = "file"

// ReadImage はmultipartのfieldからファイルを読み込みます。
// フィールドがない場合やstorage.MaxImageSizeを超える場合はapperr.ErrValidationです。
// 形式の判定は保存時にstorage.DetectImageが行います。
func ReadImage(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is required", apperr.ErrValidation, field)
	}
	if fh.Size > storage.MaxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", apperr.ErrValidation, storage.MaxImageSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > storage.MaxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", apperr.ErrValidation, storage.MaxImageSize)
	}
	return data, nil
}
