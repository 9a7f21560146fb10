// Package render превращает состояние экрана в карточки и выводит их
// в текст, HTML или JSON.
package render

import (
	"fmt"
	"math"
	"time"
)

const (
	DateLayout    = "Monday, Jan 2, 2006"
	WeekdayLayout = "Mon"
	ClockLayout   = "15:04"
)

// Round округляет до ближайшего целого, половины в сторону +∞
// (-2.5 → -2, 2.5 → 3)
func Round(v float64) int {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return int(f)
}

// TempUnit обозначение температуры для системы единиц
func TempUnit(units string) string {
	switch units {
	case "imperial":
		return "°F"
	case "standard":
		return "K"
	default:
		return "°C"
	}
}

// SpeedUnit обозначение скорости ветра для системы единиц
func SpeedUnit(units string) string {
	if units == "imperial" {
		return "mph"
	}
	return "m/s"
}

// FormatTemp округлённая температура с единицей
func FormatTemp(v float64, units string) string {
	return fmt.Sprintf("%d%s", Round(v), TempUnit(units))
}

// FormatWind скорость ветра с единицей
func FormatWind(v float64, units string) string {
	return fmt.Sprintf("%.1f %s", v, SpeedUnit(units))
}

// FormatHumidity влажность в процентах
func FormatHumidity(v float64) string {
	return fmt.Sprintf("%d%%", Round(v))
}

// Zone часовой пояс места по смещению провайдера в секундах
func Zone(offsetSeconds int) *time.Location {
	if offsetSeconds == 0 {
		return time.UTC
	}
	return time.FixedZone(zoneName(offsetSeconds), offsetSeconds)
}

func zoneName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60)
}

// FormatDate дата в виде "Saturday, Oct 17, 2026"
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// FormatWeekday короткий день недели точки прогноза
func FormatWeekday(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(WeekdayLayout)
}

// FormatClock время суток точки прогноза
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}
