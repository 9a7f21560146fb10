package providers

import (
	"context"
	"errors"
	"fmt"

	"weather-screen/models"
)

var (
	ErrNotFound     = errors.New("место не найдено")
	ErrUnauthorized = errors.New("неверный API ключ")
	ErrNoConditions = errors.New("нет данных о погоде")

	ErrSuggestionDisabled  = errors.New("провайдер подсказок не настроен")
	ErrMalformedSuggestion = errors.New("некорректный ответ провайдера подсказок")
)

// APIError ошибка внешнего API с кодом статуса
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ошибка %s: статус %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("ошибка %s: статус %d: %s", e.Provider, e.StatusCode, e.Message)
}

// WeatherProvider интерфейс погодного провайдера
type WeatherProvider interface {
	Name() string
	IsAvailable() bool
	CurrentWeather(ctx context.Context, coords models.Coordinates) (*models.CurrentWeather, error)
	Forecast(ctx context.Context, coords models.Coordinates, count int) (*models.Forecast, error)
}

// SuggestionProvider интерфейс генератора подсказок
type SuggestionProvider interface {
	Name() string
	IsAvailable() bool
	Suggest(ctx context.Context, req models.SuggestionRequest) (*models.Suggestion, error)
}
