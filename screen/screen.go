package screen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"weather-screen/models"
	"weather-screen/providers"
)

// ErrNoCurrentWeather подсказка не запрашивается без текущей погоды
var ErrNoCurrentWeather = errors.New("нет текущей погоды для подсказки")

type Controller struct {
	weather       providers.WeatherProvider
	suggester     providers.SuggestionProvider
	units         string
	forecastCount int
	debug         bool
	now           func() time.Time
	tracer        trace.Tracer
}

type Option func(*Controller)

// WithDebug включает логирование каждого перехода состояния
func WithDebug(debug bool) Option {
	return func(c *Controller) { c.debug = debug }
}

// WithClock подменяет часы (тесты)
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController создаёт контроллер экрана; suggester может быть nil
func NewController(weather providers.WeatherProvider, suggester providers.SuggestionProvider, units string, forecastCount int, opts ...Option) *Controller {
	c := &Controller{
		weather:       weather,
		suggester:     suggester,
		units:         units,
		forecastCount: forecastCount,
		now:           time.Now,
		tracer:        otel.Tracer("weather-screen/screen"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Units() string {
	return c.units
}

// ProvidersInfo возвращает имена подключённых провайдеров
func (c *Controller) ProvidersInfo() []string {
	info := []string{c.weather.Name()}
	if c.suggester != nil && c.suggester.IsAvailable() {
		info = append(info, c.suggester.Name())
	}
	return info
}

type source int

const (
	sourceCurrent source = iota
	sourceForecast
	sourceSuggestion
)

func (s source) String() string {
	switch s {
	case sourceCurrent:
		return "current"
	case sourceForecast:
		return "forecast"
	default:
		return "suggestion"
	}
}

type event struct {
	source     source
	current    *models.CurrentWeather
	forecast   *models.Forecast
	suggestion *models.Suggestion
	err        error
}

// Run монтирует экран для координат: параллельно запрашивает текущую погоду
// и прогноз, после успешной текущей погоды: подсказку. onChange вызывается
// последовательно на каждый переход состояния и никогда после отмены ctx.
// Возвращает итоговый снимок.
func (c *Controller) Run(ctx context.Context, coords models.Coordinates, onChange func(models.ScreenState)) (models.ScreenState, error) {
	if err := coords.Validate(); err != nil {
		return models.ScreenState{}, err
	}

	state := models.ScreenState{
		SessionID:   uuid.New().String(),
		Coordinates: coords,
		Units:       c.units,
		MountedAt:   c.now(),
		Current:     models.CurrentSource{Status: models.StatusLoading},
		Forecast:    models.ForecastSource{Status: models.StatusLoading},
		Suggestion:  models.SuggestionSource{Status: models.StatusLoading},
	}

	ctx, span := c.tracer.Start(ctx, "screen.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("session_id", state.SessionID),
		attribute.Float64("lat", coords.Lat),
		attribute.Float64("lon", coords.Lon),
	)

	// отмена запросов при размонтировании экрана
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notify := func() {
		if onChange != nil && ctx.Err() == nil {
			onChange(state.Clone())
		}
	}
	notify()

	var wg sync.WaitGroup
	// не больше трёх событий: горутины никогда не блокируются на отправке
	events := make(chan event, 3)

	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loadCurrent(ctx, coords, events)
	}()
	go func() {
		defer wg.Done()
		forecast, err := c.weather.Forecast(ctx, coords, c.forecastCount)
		events <- event{source: sourceForecast, forecast: forecast, err: err}
	}()

	go func() {
		wg.Wait()
		close(events)
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					c.abort(&state, err)
					return state, err
				}
				return state, nil
			}
			if ctx.Err() != nil {
				continue
			}
			c.apply(&state, ev)
			if ev.err != nil {
				span.RecordError(ev.err)
			}
			notify()
		case <-ctx.Done():
			err := ctx.Err()
			c.abort(&state, err)
			log.Printf("Экран %s размонтирован до завершения загрузки: %v", state.SessionID, err)
			return state, err
		}
	}
}

// loadCurrent текущая погода и, при успехе, зависимая подсказка
func (c *Controller) loadCurrent(ctx context.Context, coords models.Coordinates, events chan<- event) {
	current, err := c.weather.CurrentWeather(ctx, coords)
	events <- event{source: sourceCurrent, current: current, err: err}

	if err != nil {
		events <- event{source: sourceSuggestion, err: fmt.Errorf("%w: %v", ErrNoCurrentWeather, err)}
		return
	}
	if c.suggester == nil {
		events <- event{source: sourceSuggestion, err: providers.ErrSuggestionDisabled}
		return
	}

	suggestion, err := c.suggester.Suggest(ctx, models.SuggestionRequest{
		Temperature: current.Main.Temp,
		FeelsLike:   current.Main.FeelsLike,
		WindSpeed:   current.WindSpeed,
		Humidity:    current.Main.Humidity,
		Description: current.Condition.Description,
		Units:       c.units,
	})
	events <- event{source: sourceSuggestion, suggestion: suggestion, err: err}
}

// apply переводит источник в терминальное состояние; повторные переходы игнорируются
func (c *Controller) apply(state *models.ScreenState, ev event) {
	switch ev.source {
	case sourceCurrent:
		if state.Current.Status.Terminal() {
			return
		}
		if ev.err != nil {
			state.Current = models.CurrentSource{Status: models.StatusFailed, Error: ev.err.Error()}
		} else {
			state.Current = models.CurrentSource{Status: models.StatusLoaded, Data: ev.current}
		}
	case sourceForecast:
		if state.Forecast.Status.Terminal() {
			return
		}
		if ev.err != nil {
			state.Forecast = models.ForecastSource{Status: models.StatusFailed, Error: ev.err.Error()}
		} else {
			state.Forecast = models.ForecastSource{Status: models.StatusLoaded, Data: ev.forecast}
		}
	case sourceSuggestion:
		if state.Suggestion.Status.Terminal() {
			return
		}
		if ev.err != nil {
			state.Suggestion = models.SuggestionSource{Status: models.StatusFailed, Error: ev.err.Error()}
		} else {
			state.Suggestion = models.SuggestionSource{Status: models.StatusLoaded, Data: ev.suggestion}
		}
	}

	if ev.err != nil {
		log.Printf("Экран %s: %s: ошибка: %v", state.SessionID, ev.source, ev.err)
	} else if c.debug {
		log.Printf("Экран %s: %s загружен", state.SessionID, ev.source)
	}
}

// abort помечает незавершённые источники ошибкой отмены
func (c *Controller) abort(state *models.ScreenState, err error) {
	for _, s := range []source{sourceCurrent, sourceForecast, sourceSuggestion} {
		c.apply(state, event{source: s, err: err})
	}
}
