// Package apperr はアプリケーション全体で共有するエラー分類を定義します。
// 各レイヤーはこれらのセンチネルを fmt.Errorf("%w: ...") でラップして返し、
// HTTP境界（platform/http/httperr）でのみステータスコードに変換されます。
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential はログインハンドルまたはパスワードが誤っている場合に返されます。
	// 「ユーザーが存在しない」と「パスワード不一致」を区別しません。
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrUnauthenticated はBearerトークンが提示されなかった場合に返されます。
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrTokenExpired は署名は正しいが有効期限を過ぎたトークンに対して返されます。
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed は署名が検証できない、または必須クレームが欠落したトークンに対して返されます。
	ErrTokenMalformed = errors.New("token malformed")

	// ErrUserNotFound はトークンのsubjectが既存ユーザーに解決できない場合に返されます。
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden はロールまたは所有権の条件を満たさない場合に返されます。
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound は要求されたエンティティが存在しない場合に返されます。
	ErrNotFound = errors.New("not found")

	// ErrValidation は入力の形式や業務ルールの違反を表します。
	ErrValidation = errors.New("validation error")

	// ErrConflict は一意制約や状態の衝突（重複フォロー、予約の重複など）を表します。
	ErrConflict = errors.New("conflict")
)

// NotFound はerrがErrNotFoundであれば対象の名前（"user"、"event"など）を付けて返します。
// それ以外のエラーはそのまま返します。
func NotFound(err error, what string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
