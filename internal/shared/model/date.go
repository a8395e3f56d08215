package model

import (
	"fmt"
	"time"

	"erasmus_backend/internal/shared/apperr"
)

// DateLayout はAPIとストレージで使用する日付形式（ISO 8601、YYYY-MM-DD）です。
// 文字列のまま保存するため、辞書順の比較がそのまま日付の比較になります。
const DateLayout = "2006-01-02"

// ParseDate はYYYY-MM-DD形式の日付を解析します。不正な形式はapperr.ErrValidationです。
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", apperr.ErrValidation, field)
	}
	return t, nil
}

// DateBefore はfromがtoより前であることを検証します。
func DateBefore(fromField, from, toField, to string) error {
	f, err := ParseDate(fromField, from)
	if err != nil {
		return err
	}
	t, err := ParseDate(toField, to)
	if err != nil {
		return err
	}
	if !f.Before(t) {
		return fmt.Errorf("%w: %s must be before %s", apperr.ErrValidation, fromField, toField)
	}
	return nil
}
