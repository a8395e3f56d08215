// Package storage はアップロード画像をローカルディスクに保存します。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"erasmus_backend/internal/shared/apperr"
)

// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
const MaxImageSize = 10 * 1024 * 1024

// PublicPrefix は保存した画像を配信するURLのプレフィックスです。
const PublicPrefix = "/uploads"

// allowedImageTypes は受け付けるMIMEタイプと拡張子です。
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var validFolder = regexp.MustCompile(`^[a-z0-9_-]+$`)

// LocalStore は画像をディレクトリ配下に保存し、公開URLを返します。
type LocalStore struct {
	dir string
}

// NewLocalStore はdirを作成し、LocalStoreを生成します。
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir は保存先ディレクトリです。ルーターの静的配信に使います。
func (s *LocalStore) Dir() string {
	return s.dir
}

// DetectImage はバイト列の先頭からMIMEタイプを判定し、許可された画像なら拡張子を返します。
// サイズ超過、空データ、未対応の形式はapperr.ErrValidationです。
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", apperr.ErrValidation)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", apperr.ErrValidation, MaxImageSize)
	}
	ext, ok := allowedImageTypes[http.DetectContentType(data)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type (jpeg, png, gif, webp)", apperr.ErrValidation)
	}
	return ext, nil
}

// SaveImage は画像をfolder配下にランダムなファイル名で保存し、公開URL（/uploads/<folder>/<name>）を返します。
func (s *LocalStore) SaveImage(ctx context.Context, folder string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !validFolder.MatchString(folder) {
		return "", fmt.Errorf("invalid storage folder %q", folder)
	}
	ext, err := DetectImage(data)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path.Join(PublicPrefix, folder, name), nil
}

// Remove はSaveImageが返した公開URLのファイルを削除します。既に存在しなければ何もしません。
// LocalStoreが発行した形式（/uploads/<folder>/<name>）以外のURLはエラーです。
func (s *LocalStore) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, ok := strings.CutPrefix(url, PublicPrefix+"/")
	if !ok {
		return fmt.Errorf("not a stored image url %q", url)
	}
	folder, name, ok := strings.Cut(rel, "/")
	if !ok || !validFolder.MatchString(folder) || name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("not a stored image url %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, folder, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
