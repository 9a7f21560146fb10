package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"weather-screen/models"
)

var metricGlyphs = map[string]string{
	"thermometer": "🌡",
	"wind":        "💨",
	"drop":        "💧",
}

// Text выводит экран для терминала
func Text(w io.Writer, s Screen) error {
	var b strings.Builder

	switch s.Status {
	case models.StatusFailed:
		fmt.Fprintf(&b, "❌ Не удалось получить погоду: %s\n", s.Error)
		return write(w, b.String())
	case models.StatusLoaded:
	default:
		b.WriteString("⏳ Loading...\n")
		return write(w, b.String())
	}

	if c := s.Current; c != nil {
		fmt.Fprintf(&b, "🌤️  %s\n", c.Location)
		fmt.Fprintf(&b, "%s\n", c.Date)
		b.WriteString(strings.Repeat("=", 40) + "\n")
		fmt.Fprintf(&b, "%s    [icon %s, %s]\n", c.Temperature, c.Icon.ID, dayNightLabel(c.Icon))
		fmt.Fprintf(&b, "%s\n", c.MinMax)
		fmt.Fprintf(&b, "%s\n", c.Description)
		if c.Rain != "" {
			fmt.Fprintf(&b, "Rain: %s\n", c.Rain)
		}
		fmt.Fprintf(&b, "Background: %s\n", c.Icon.Background)
		b.WriteString("\n")
	}

	if len(s.Metrics) > 0 {
		tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
		labels := make([]string, len(s.Metrics))
		values := make([]string, len(s.Metrics))
		for i, m := range s.Metrics {
			labels[i] = metricGlyphs[m.Icon] + " " + m.Label
			values[i] = m.Value
		}
		fmt.Fprintln(tw, strings.Join(labels, "\t"))
		fmt.Fprintln(tw, strings.Join(values, "\t"))
		tw.Flush()
		b.WriteString("\n")
	}

	b.WriteString("Forecast\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	switch s.Forecast.Status {
	case models.StatusLoaded:
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, t := range s.Forecast.Tiles {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Weekday, t.Time, t.Temperature)
		}
		tw.Flush()
	case models.StatusFailed:
		fmt.Fprintf(&b, "❌ %s\n", s.Forecast.Error)
	default:
		b.WriteString("⏳ Loading...\n")
	}
	b.WriteString("\n")

	b.WriteString("✦ Suggestion\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	switch p := s.Suggestion; {
	case p.Loading:
		b.WriteString("⏳ Loading...\n")
	case p.Error != "":
		fmt.Fprintf(&b, "❌ %s\n", p.Error)
	default:
		fmt.Fprintf(&b, "%s\n", p.Text)
		if len(p.Activities) > 0 {
			fmt.Fprintf(&b, "- %s\n", strings.Join(p.Activities, ", "))
		}
	}

	return write(w, b.String())
}

func dayNightLabel(i Icon) string {
	if i.Night() {
		return "night"
	}
	return "day"
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
