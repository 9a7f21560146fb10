package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidCoordinates координаты не переданы или вне допустимого диапазона
var ErrInvalidCoordinates = errors.New("некорректные координаты")

// Coordinates параметры навигации: точка, для которой строится экран
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate проверяет диапазоны широты и долготы
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("%w: координата не является числом", ErrInvalidCoordinates)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: широта должна быть от -90 до 90, получено %g", ErrInvalidCoordinates, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: долгота должна быть от -180 до 180, получено %g", ErrInvalidCoordinates, c.Lon)
	}
	return nil
}

// MainMetrics скалярные показатели, общие для текущей погоды и прогноза
type MainMetrics struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`  // hPa
	Humidity  float64 `json:"humidity"`  // %
	SeaLevel  float64 `json:"sea_level"` // hPa
	GrndLevel float64 `json:"grnd_level"`
}

// Condition описание погодных условий
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather текущая погода в точке
type CurrentWeather struct {
	Name           string      `json:"name"`
	Country        string      `json:"country"`
	Main           MainMetrics `json:"main"`
	WindSpeed      float64     `json:"wind_speed"`
	Rain1h         *float64    `json:"rain_1h,omitempty"` // мм за последний час
	Condition      Condition   `json:"condition"`
	TimezoneOffset int         `json:"timezone_offset"` // секунды от UTC
	FetchedAt      time.Time   `json:"fetched_at"`
}

// ForecastPoint точка прогноза
type ForecastPoint struct {
	Timestamp int64       `json:"dt"` // unix, секунды
	Main      MainMetrics `json:"main"`
	Condition Condition   `json:"condition"`
}

// Time возвращает момент точки прогноза
func (p ForecastPoint) Time() time.Time {
	return time.Unix(p.Timestamp, 0)
}

// Forecast упорядоченная последовательность точек в порядке провайдера
type Forecast struct {
	Name           string          `json:"name"`
	Country        string          `json:"country"`
	TimezoneOffset int             `json:"timezone_offset"`
	Points         []ForecastPoint `json:"points"`
}

// Suggestion сгенерированная подсказка
type Suggestion struct {
	Suggestion string   `json:"suggestion"`
	Activities []string `json:"activities"`
}

// SuggestionRequest параметры запроса подсказки
type SuggestionRequest struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	Units       string  `json:"units"`
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
