// Package search は一覧APIで使うあいまい検索（スマート検索）を実装します。
//
// クエリと項目のテキストは小文字化してアクセント記号を除き、空白で分割します。
// 項目のいずれかのトークンがクエリのいずれかのトークンと一致するか、それを含むか、
// Jaro-Winkler類似度がthreshold以上であれば一致とみなします。
package search

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// AccommodationThreshold は宿泊施設のタイトルに使います。
	AccommodationThreshold = 0.75
	// RecommendationThreshold はおすすめのタイトルと説明に使います。
	RecommendationThreshold = 0.80
)

// Matcher は項目のテキストがクエリに一致するかを判定します。
type Matcher struct {
	threshold float64
	metric    *metrics.JaroWinkler
}

// NewMatcher は指定したJaro-Winklerの閾値を使うMatcherを返します。
func NewMatcher(threshold float64) *Matcher {
	jw := metrics.NewJaroWinkler()
	jw.CaseSensitive = true // input is already folded
	return &Matcher{threshold: threshold, metric: jw}
}

// Match はtextがqueryに一致するかを返します。空のクエリはすべてに一致します。
func (m *Matcher) Match(query, text string) bool {
	queryKeys := Tokens(query)
	if len(queryKeys) == 0 {
		return true
	}
	return m.matchKeys(queryKeys, Tokens(text))
}

func (m *Matcher) matchKeys(queryKeys, itemKeys []string) bool {
	for _, itemKey := range itemKeys {
		for _, queryKey := range queryKeys {
			if m.matchKey(itemKey, queryKey) {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) matchKey(itemKey, queryKey string) bool {
	return itemKey == queryKey ||
		strings.Contains(itemKey, queryKey) ||
		strutil.Similarity(itemKey, queryKey, m.metric) >= m.threshold
}

// Filter はqueryに一致する項目を元の順序のまま返します。
func Filter[T any](m *Matcher, query string, items []T, text func(T) string) []T {
	queryKeys := Tokens(query)
	if len(queryKeys) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if m.matchKeys(queryKeys, Tokens(text(it))) {
			out = append(out, it)
		}
	}
	return out
}

// Tokens はsをFoldして空白で分割します。
func Tokens(s string) []string {
	return strings.Fields(Fold(s))
}

// Fold はsを小文字化し、結合文字を取り除きます（"Málaga" -> "malaga"）。
func Fold(s string) string {
	// transform.Chainは状態を持つため呼び出しごとに作る
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}
