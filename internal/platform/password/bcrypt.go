// Package password はbcryptによるパスワードのハッシュ化と検証を提供します。
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DummyHash はユーザーが存在しない場合の比較に使うダミーハッシュです。
// bcrypt.CompareHashAndPasswordが常に呼ばれ、応答時間からユーザーの存在を推測されないようにします。
const DummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hasher はソルト付きの適応型ハッシュ（bcrypt）でパスワードを扱います。
type Hasher struct {
	cost int
}

// NewHasher は指定コストのHasherを生成します。範囲外のコストはbcrypt.DefaultCostに丸めます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードからbcryptダイジェストを生成します。
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文がダイジェストに一致するかを返します。
// 不一致や不正なダイジェストはエラーではなくfalseとして扱います。
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
