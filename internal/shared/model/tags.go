package model

import (
	"encoding/json"
	"strings"
)

// NormalizeTags はタグの前後の空白を除き、空のタグと大文字小文字を無視した重複を取り除きます。順序は保ちます。
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// TagsColumn はjsonシリアライザーと同じ形式でタグをエンコードします。
// マップでの更新はgormのシリアライザーを通らないため、部分更新ではこの値を渡します。
func TagsColumn(tags []string) (string, error) {
	raw, err := json.Marshal(NormalizeTags(tags))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
