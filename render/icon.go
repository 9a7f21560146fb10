package render

import (
	"strings"
	"time"

	"github.com/sixdouglas/suncalc"

	"weather-screen/models"
)

const (
	VariantDay   = "d"
	VariantNight = "n"
)

var dayNightStripper = strings.NewReplacer("d", "", "n", "")

// Icon иконка погоды: код без суффикса и вариант день/ночь
type Icon struct {
	Code       string `json:"code"`
	ID         string `json:"id"`
	Variant    string `json:"variant"`
	Background string `json:"background"`
}

// Night ночной вариант
func (i Icon) Night() bool {
	return i.Variant == VariantNight
}

// ParseIcon отделяет идентификатор иконки от варианта день/ночь.
// "10d" → ("10", "d", true); код без d/n в конце → ok == false.
func ParseIcon(code string) (id, variant string, ok bool) {
	id = dayNightStripper.Replace(code)
	if code == "" {
		return id, "", false
	}
	switch last := code[len(code)-1:]; last {
	case VariantDay, VariantNight:
		return id, last, true
	}
	return id, "", false
}

// SunVariant определяет день/ночь по высоте солнца в точке
func SunVariant(coords models.Coordinates, at time.Time) string {
	pos := suncalc.GetPosition(at, coords.Lat, coords.Lon)
	if pos.Altitude > 0 {
		return VariantDay
	}
	return VariantNight
}

// ResolveIcon строит иконку; если провайдер не указал вариант,
// он вычисляется по положению солнца
func ResolveIcon(code string, coords models.Coordinates, at time.Time) Icon {
	id, variant, ok := ParseIcon(code)
	if !ok {
		variant = SunVariant(coords, at)
	}
	return Icon{
		Code:       code,
		ID:         id,
		Variant:    variant,
		Background: Background(id, variant),
	}
}

// Background ключ фона карточки по группе иконки и варианту
func Background(id, variant string) string {
	var group string
	switch id {
	case "01":
		group = "clear"
	case "02", "03", "04":
		group = "clouds"
	case "09", "10":
		group = "rain"
	case "11":
		group = "thunderstorm"
	case "13":
		group = "snow"
	case "50":
		group = "mist"
	default:
		group = "default"
	}

	if variant == VariantNight {
		return group + "-night"
	}
	return group + "-day"
}
