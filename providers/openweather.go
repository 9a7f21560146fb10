package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"weather-screen/models"
)

const openWeatherDefaultURL = "https://api.openweathermap.org/data/2.5"

type OpenWeatherProvider struct {
	apiKey  string
	units   string
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewOpenWeatherProvider(apiKey, units string, timeout time.Duration) *OpenWeatherProvider {
	if units == "" {
		units = "metric"
	}
	return &OpenWeatherProvider{
		apiKey: apiKey,
		units:  units,
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: openWeatherDefaultURL,
		tracer:  otel.Tracer("weather-screen/providers"),
	}
}

// SetBaseURL меняет адрес API (прокси, тесты)
func (p *OpenWeatherProvider) SetBaseURL(baseURL string) {
	p.baseURL = strings.TrimRight(baseURL, "/")
}

func (p *OpenWeatherProvider) Name() string {
	return "OpenWeatherMap"
}

func (p *OpenWeatherProvider) IsAvailable() bool {
	return p.apiKey != ""
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
	SeaLevel  float64 `json:"sea_level"`
	GrndLevel float64 `json:"grnd_level"`
}

func (m owmMain) metrics() models.MainMetrics {
	return models.MainMetrics{
		Temp:      m.Temp,
		FeelsLike: m.FeelsLike,
		TempMin:   m.TempMin,
		TempMax:   m.TempMax,
		Pressure:  m.Pressure,
		Humidity:  m.Humidity,
		SeaLevel:  m.SeaLevel,
		GrndLevel: m.GrndLevel,
	}
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(list []owmCondition) (models.Condition, bool) {
	if len(list) == 0 {
		return models.Condition{}, false
	}
	c := list[0]
	return models.Condition{ID: c.ID, Main: c.Main, Description: c.Description, Icon: c.Icon}, true
}

// CurrentWeather получает текущую погоду по координатам
func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, coords models.Coordinates) (*models.CurrentWeather, error) {
	ctx, span := p.tracer.Start(ctx, "openweather.current")
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", coords.Lat), attribute.Float64("lon", coords.Lon))

	var result struct {
		Name     string  `json:"name"`
		Timezone int     `json:"timezone"`
		Main     owmMain `json:"main"`
		Wind     struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain *struct {
			OneHour *float64 `json:"1h"`
		} `json:"rain"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
		Weather []owmCondition `json:"weather"`
	}

	if err := p.get(ctx, "weather", p.query(coords), &result); err != nil {
		span.RecordError(err)
		return nil, err
	}

	cond, ok := firstCondition(result.Weather)
	if !ok {
		span.RecordError(ErrNoConditions)
		return nil, ErrNoConditions
	}

	weather := &models.CurrentWeather{
		Name:           result.Name,
		Country:        result.Sys.Country,
		Main:           result.Main.metrics(),
		WindSpeed:      result.Wind.Speed,
		Condition:      cond,
		TimezoneOffset: result.Timezone,
		FetchedAt:      time.Now(),
	}
	if result.Rain != nil && result.Rain.OneHour != nil {
		rain := *result.Rain.OneHour
		weather.Rain1h = &rain
	}

	return weather, nil
}

// Forecast получает прогноз из count точек (шаг провайдера 3 часа)
func (p *OpenWeatherProvider) Forecast(ctx context.Context, coords models.Coordinates, count int) (*models.Forecast, error) {
	ctx, span := p.tracer.Start(ctx, "openweather.forecast")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("lat", coords.Lat),
		attribute.Float64("lon", coords.Lon),
		attribute.Int("cnt", count),
	)

	query := p.query(coords)
	if count > 0 {
		query.Set("cnt", strconv.Itoa(count))
	}

	var result struct {
		City struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			Timezone int    `json:"timezone"`
		} `json:"city"`
		List []struct {
			Dt      int64          `json:"dt"`
			Main    owmMain        `json:"main"`
			Weather []owmCondition `json:"weather"`
		} `json:"list"`
	}

	if err := p.get(ctx, "forecast", query, &result); err != nil {
		span.RecordError(err)
		return nil, err
	}

	n := len(result.List)
	if count > 0 && n > count {
		n = count
	}

	forecast := &models.Forecast{
		Name:           result.City.Name,
		Country:        result.City.Country,
		TimezoneOffset: result.City.Timezone,
		Points:         make([]models.ForecastPoint, 0, n),
	}
	for _, item := range result.List[:n] {
		cond, _ := firstCondition(item.Weather)
		forecast.Points = append(forecast.Points, models.ForecastPoint{
			Timestamp: item.Dt,
			Main:      item.Main.metrics(),
			Condition: cond,
		})
	}

	return forecast, nil
}

func (p *OpenWeatherProvider) query(coords models.Coordinates) url.Values {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("appid", p.apiKey)
	query.Set("units", p.units)
	return query
}

func (p *OpenWeatherProvider) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if !p.IsAvailable() {
		return fmt.Errorf("провайдер %s не настроен", p.Name())
	}

	reqURL := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return ErrUnauthorized
		}

		var apiError struct {
			Message string `json:"message"`
		}
		msg := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &apiError); err == nil && apiError.Message != "" {
			msg = apiError.Message
		}
		return &APIError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ошибка парсинга JSON: %w", err)
	}
	return nil
}
