// Package usecase はlocationフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"erasmus_backend/internal/feature/location/domain/entity"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/search"
)

// LocationRepository は国と都市の一覧を提供する外部データソースを抽象化します。
type LocationRepository interface {
	Countries(ctx context.Context) ([]entity.Country, error)
	Cities(ctx context.Context, country string) ([]string, error)
}

// locationUsecase は国・都市の検索を実装します。
type locationUsecase struct {
	repo LocationRepository
}

// NewLocationUsecase はlocationUsecaseの新しいインスタンスを生成します。
func NewLocationUsecase(repo LocationRepository) *locationUsecase {
	return &locationUsecase{repo: repo}
}

// Countries は国の一覧を返します。qが空でない場合は名前に部分一致するものに絞り込みます。
// 比較は大文字小文字とアクセントを無視します（"turk"は"Türkiye"に一致）。
func (u *locationUsecase) Countries(ctx context.Context, q string) ([]entity.Country, error) {
	countries, err := u.repo.Countries(ctx)
	if err != nil {
		return nil, err
	}
	q = search.Fold(strings.TrimSpace(q))
	if q == "" {
		return countries, nil
	}
	out := make([]entity.Country, 0, len(countries))
	for _, c := range countries {
		if strings.Contains(search.Fold(c.Name), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Cities は国の都市一覧を返します。qでCountriesと同じ部分一致の絞り込みができます。
func (u *locationUsecase) Cities(ctx context.Context, country, q string) ([]string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country is required", apperr.ErrValidation)
	}
	cities, err := u.repo.Cities(ctx, country)
	if err != nil {
		return nil, err
	}
	q = search.Fold(strings.TrimSpace(q))
	if q == "" {
		return cities, nil
	}
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		if strings.Contains(search.Fold(c), q) {
			out = append(out, c)
		}
	}
	return out, nil
}
