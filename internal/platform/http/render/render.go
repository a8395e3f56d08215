// Package render はハンドラー共通のJSONレスポンス出力を提供します。
package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// List は一覧を200で返します。nilのスライスはnullではなく[]になります。
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
