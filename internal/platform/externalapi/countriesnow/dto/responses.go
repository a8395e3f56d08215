// Package dto はCountriesNow APIのレスポンスのDTOを定義します。
package dto

// Envelope はCountriesNowのすべてのレスポンスに共通の外側の形式です。
type Envelope struct {
	Error bool   `json:"error"`
	Msg   string `json:"msg"`
}

// CountriesResponse はcountries/flag/imagesのレスポンスです。
type CountriesResponse struct {
	Envelope
	Data []struct {
		Name string `json:"name"`
		Flag string `json:"flag"`
		Iso2 string `json:"iso2"`
		Iso3 string `json:"iso3"`
	} `json:"data"`
}

// CitiesRequest はPOST countries/citiesのリクエストボディです。
type CitiesRequest struct {
	Country string `json:"country"`
}

// CitiesResponse はcountries/citiesのレスポンスです。
type CitiesResponse struct {
	Envelope
	Data []string `json:"data"`
}

// Failed はAPIがエラーを返したかを返します。
func (e Envelope) Failed() (bool, string) {
	return e.Error, e.Msg
}
