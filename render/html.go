package render

import (
	"html/template"
	"io"
)

var page = template.Must(template.New("screen").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{if .Current}}{{.Current.Location}}{{else}}Weather{{end}}</title>
    <style>
        body { font-family: Arial, sans-serif; background: #111827; color: #fff; margin: 0; padding: 16px; }
        .card { background: #1f2937; border-radius: 12px; padding: 16px; margin-bottom: 8px; }
        .hero { aspect-ratio: 1; display: flex; flex-direction: column; justify-content: space-between; }
        .hero h1 { margin: 0; }
        .temp { font-size: 15vw; font-weight: bold; }
        .bg-clear-day { background: #2563eb; } .bg-clear-night { background: #1e1b4b; }
        .bg-clouds-day { background: #64748b; } .bg-clouds-night { background: #334155; }
        .bg-rain-day { background: #475569; } .bg-rain-night { background: #1e293b; }
        .bg-thunderstorm-day, .bg-thunderstorm-night { background: #312e81; }
        .bg-snow-day { background: #94a3b8; } .bg-snow-night { background: #475569; }
        .bg-mist-day, .bg-mist-night { background: #6b7280; }
        .metrics, .forecast { display: flex; justify-content: space-around; }
        .forecast { overflow-x: auto; height: 96px; }
        .tile { display: flex; flex-direction: column; align-items: center; padding: 8px; }
        .label { color: #6b7280; font-size: 10px; font-weight: bold; }
        .muted { color: #9ca3af; font-size: 12px; }
        .spinner { color: limegreen; }
        .error { color: #f87171; }
    </style>
</head>
<body>
{{if eq .Status "loaded"}}{{with .Current}}
<div class="card hero bg-{{.Icon.Background}}">
    <div>
        <h1>{{.Location}}</h1>
        <div>{{.Date}}</div>
    </div>
    <div>
        <div class="temp">{{.Temperature}}</div>
        <div><b>{{.MinMax}}</b></div>
        <div>{{.Description}}</div>
        {{if .Rain}}<div class="muted">{{.Rain}}</div>{{end}}
        <div class="muted">icon {{.Icon.ID}} ({{if .Icon.Night}}night{{else}}day{{end}})</div>
    </div>
</div>
{{end}}
<div class="card metrics">
    {{range .Metrics}}<div class="tile"><span class="label">{{.Label}}</span><b>{{.Value}}</b></div>{{end}}
</div>
<div class="card forecast">
    {{if eq .Forecast.Status "loaded"}}{{range .Forecast.Tiles}}
    <div class="tile"><span class="muted">{{.Weekday}}</span><b>{{.Temperature}}</b><span class="muted">{{.Time}}</span></div>
    {{end}}{{else if eq .Forecast.Status "failed"}}<span class="error">{{.Forecast.Error}}</span>{{else}}<span class="spinner">Loading...</span>{{end}}
</div>
<div class="card">
    <div class="spinner">✦ <span style="color:#fff">Suggestion</span></div>
    {{with .Suggestion}}
    {{if .Loading}}<span class="spinner">Loading...</span>
    {{else if .Error}}<span class="error">{{.Error}}</span>
    {{else}}<p><b>{{.Text}}</b></p>{{if .Activities}}<ul>{{range .Activities}}<li>{{.}}</li>{{end}}</ul>{{end}}{{end}}
    {{end}}
</div>
{{else if eq .Status "failed"}}
<div class="card error">Не удалось получить погоду: {{.Error}}</div>
{{else}}
<div class="card spinner">Loading...</div>
{{end}}
</body>
</html>
`))

// HTML выводит экран как HTML-страницу
func HTML(w io.Writer, s Screen) error {
	return page.Execute(w, s)
}
