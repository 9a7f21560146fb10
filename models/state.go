package models

import "time"

// SourceStatus состояние одного источника данных экрана
type SourceStatus string

const (
	StatusLoading SourceStatus = "loading"
	StatusLoaded  SourceStatus = "loaded"
	StatusFailed  SourceStatus = "failed"
)

// Terminal сообщает, что статус больше не изменится
func (s SourceStatus) Terminal() bool {
	return s == StatusLoaded || s == StatusFailed
}

// CurrentSource состояние текущей погоды
type CurrentSource struct {
	Status SourceStatus    `json:"status"`
	Data   *CurrentWeather `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ForecastSource состояние прогноза
type ForecastSource struct {
	Status SourceStatus `json:"status"`
	Data   *Forecast    `json:"data,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// SuggestionSource состояние подсказки
type SuggestionSource struct {
	Status SourceStatus `json:"status"`
	Data   *Suggestion  `json:"data,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// ScreenState снимок состояния экрана
type ScreenState struct {
	SessionID   string           `json:"session_id"`
	Coordinates Coordinates      `json:"coordinates"`
	Units       string           `json:"units"`
	MountedAt   time.Time        `json:"mounted_at"`
	Current     CurrentSource    `json:"current"`
	Forecast    ForecastSource   `json:"forecast"`
	Suggestion  SuggestionSource `json:"suggestion"`
}

// Done: все источники в терминальном состоянии
func (s ScreenState) Done() bool {
	return s.Current.Status.Terminal() &&
		s.Forecast.Status.Terminal() &&
		s.Suggestion.Status.Terminal()
}

// Clone возвращает копию, не разделяющую срезы с оригиналом
func (s ScreenState) Clone() ScreenState {
	out := s
	if s.Current.Data != nil {
		cw := *s.Current.Data
		if cw.Rain1h != nil {
			r := *cw.Rain1h
			cw.Rain1h = &r
		}
		out.Current.Data = &cw
	}
	if s.Forecast.Data != nil {
		f := *s.Forecast.Data
		f.Points = append([]ForecastPoint(nil), f.Points...)
		out.Forecast.Data = &f
	}
	if s.Suggestion.Data != nil {
		sg := *s.Suggestion.Data
		sg.Activities = append([]string(nil), sg.Activities...)
		out.Suggestion.Data = &sg
	}
	return out
}
