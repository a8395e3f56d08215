// Package entity はmoderationフィーチャーのドメインエンティティを定義します。
package entity

// Verdict はコンテンツ審査の結果です。
type Verdict struct {
	// Allowed は公開してよいかどうかです。
	Allowed bool
	// Reason は拒否理由（例: "adult", "violence"）です。許可時は空です。
	Reason string
}

// Allow は許可の判定を返します。
func Allow() Verdict {
	return Verdict{Allowed: true}
}

// Reject は理由付きの拒否判定を返します。
func Reject(reason string) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}
