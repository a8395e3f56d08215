// Package entity はlocationフィーチャーのドメインエンティティを定義します。
package entity

// Country は外部の位置情報APIが返す国です。
type Country struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
	Flag string `json:"flag"`
}
