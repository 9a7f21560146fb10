package render

import (
	"fmt"
	"time"

	"weather-screen/models"
)

// Screen модель отображения экрана погоды
type Screen struct {
	Status     models.SourceStatus `json:"status"`
	Error      string              `json:"error,omitempty"`
	Current    *CurrentCard        `json:"current,omitempty"`
	Metrics    []MetricTile        `json:"metrics,omitempty"`
	Forecast   ForecastStrip       `json:"forecast"`
	Suggestion SuggestionPanel     `json:"suggestion"`
}

// CurrentCard карточка текущей погоды
type CurrentCard struct {
	Location    string `json:"location"`
	Date        string `json:"date"`
	Temperature string `json:"temperature"`
	MinMax      string `json:"min_max"`
	Description string `json:"description"`
	Rain        string `json:"rain,omitempty"`
	Icon        Icon   `json:"icon"`
}

// MetricTile плитка показателя: иконка, подпись, значение
type MetricTile struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// ForecastStrip горизонтальная лента прогноза
type ForecastStrip struct {
	Status models.SourceStatus `json:"status"`
	Error  string              `json:"error,omitempty"`
	Tiles  []ForecastTile      `json:"tiles,omitempty"`
}

// ForecastTile элемент ленты прогноза
type ForecastTile struct {
	Weekday     string `json:"weekday"`
	Time        string `json:"time"`
	Temperature string `json:"temperature"`
}

// SuggestionPanel панель подсказки
type SuggestionPanel struct {
	Loading    bool     `json:"loading"`
	Error      string   `json:"error,omitempty"`
	Text       string   `json:"text,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// Build собирает модель отображения из снимка состояния.
// now момент построения, от него берётся сегодняшняя дата.
func Build(state models.ScreenState, now time.Time) Screen {
	screen := Screen{
		Status:     state.Current.Status,
		Forecast:   BuildForecast(state.Forecast, state.Units),
		Suggestion: BuildSuggestion(state.Suggestion),
	}

	switch state.Current.Status {
	case models.StatusFailed:
		screen.Error = state.Current.Error
	case models.StatusLoaded:
		if cw := state.Current.Data; cw != nil {
			screen.Current = BuildCurrent(cw, state.Coordinates, state.Units, now)
			screen.Metrics = BuildMetrics(cw, state.Units)
		}
	}

	return screen
}

// BuildCurrent карточка текущих условий
func BuildCurrent(cw *models.CurrentWeather, coords models.Coordinates, units string, now time.Time) *CurrentCard {
	card := &CurrentCard{
		Location:    fmt.Sprintf("%s, %s", cw.Name, cw.Country),
		Date:        FormatDate(now, Zone(cw.TimezoneOffset)),
		Temperature: FormatTemp(cw.Main.Temp, units),
		MinMax:      FormatTemp(cw.Main.TempMin, units) + " / " + FormatTemp(cw.Main.TempMax, units),
		Description: cw.Condition.Description,
		Icon:        ResolveIcon(cw.Condition.Icon, coords, now),
	}
	if cw.Rain1h != nil {
		card.Rain = fmt.Sprintf("%.1f mm/h", *cw.Rain1h)
	}
	return card
}

// BuildMetrics четыре плитки показателей
func BuildMetrics(cw *models.CurrentWeather, units string) []MetricTile {
	return []MetricTile{
		{Icon: "thermometer", Label: "Temperature", Value: FormatTemp(cw.Main.Temp, units)},
		{Icon: "thermometer", Label: "Feels Like", Value: FormatTemp(cw.Main.FeelsLike, units)},
		{Icon: "wind", Label: "Wind", Value: FormatWind(cw.WindSpeed, units)},
		{Icon: "drop", Label: "Humidity", Value: FormatHumidity(cw.Main.Humidity)},
	}
}

// BuildForecast лента прогноза в порядке входной последовательности
func BuildForecast(src models.ForecastSource, units string) ForecastStrip {
	strip := ForecastStrip{Status: src.Status, Error: src.Error}
	if src.Status != models.StatusLoaded || src.Data == nil {
		return strip
	}

	loc := Zone(src.Data.TimezoneOffset)
	strip.Tiles = make([]ForecastTile, 0, len(src.Data.Points))
	for _, p := range src.Data.Points {
		t := p.Time()
		strip.Tiles = append(strip.Tiles, ForecastTile{
			Weekday:     FormatWeekday(t, loc),
			Time:        FormatClock(t, loc),
			Temperature: FormatTemp(p.Main.Temp, units),
		})
	}
	return strip
}

// BuildSuggestion панель: индикатор загрузки, пока подсказки нет
func BuildSuggestion(src models.SuggestionSource) SuggestionPanel {
	switch {
	case src.Status == models.StatusLoaded && src.Data != nil:
		return SuggestionPanel{
			Text:       src.Data.Suggestion,
			Activities: src.Data.Activities,
		}
	case src.Status == models.StatusFailed:
		return SuggestionPanel{Error: src.Error}
	default:
		return SuggestionPanel{Loading: true}
	}
}
