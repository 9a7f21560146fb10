package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-screen/models"
)

const currentFixture = `{
	"name": "Berlin",
	"timezone": 7200,
	"main": {"temp": 18.6, "feels_like": 17.4, "temp_min": 16.2, "temp_max": 20.5,
		"pressure": 1012, "humidity": 72, "sea_level": 1012, "grnd_level": 1008},
	"wind": {"speed": 3.6},
	"rain": {"1h": 0.25},
	"sys": {"type": 2, "id": 2011538, "country": "DE"},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}]
}`

const forecastFixture = `{
	"city": {"name": "Berlin", "country": "DE", "timezone": 7200},
	"list": [
		{"dt": 1760706000, "main": {"temp": 18.4}, "weather": [{"id": 500, "icon": "10d"}]},
		{"dt": 1760716800, "main": {"temp": 15.5}, "weather": [{"id": 800, "icon": "01n"}]},
		{"dt": 1760727600, "main": {"temp": 12.1}, "weather": []}
	]
}`

func newTestOpenWeather(t *testing.T, handler http.HandlerFunc) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenWeatherProvider("test-key", "metric", 5*time.Second)
	p.SetBaseURL(srv.URL + "/")
	return p
}

func TestCurrentWeather(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotQuery = map[string]string{
			"lat": q.Get("lat"), "lon": q.Get("lon"),
			"appid": q.Get("appid"), "units": q.Get("units"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentFixture))
	})

	cw, err := p.CurrentWeather(context.Background(), models.Coordinates{Lat: 52.52, Lon: 13.405})
	if err != nil {
		t.Fatalf("CurrentWeather вернул ошибку: %v", err)
	}

	if gotPath != "/weather" {
		t.Errorf("ожидался путь /weather, получено %q", gotPath)
	}
	want := map[string]string{"lat": "52.52", "lon": "13.405", "appid": "test-key", "units": "metric"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("параметр %s: ожидалось %q, получено %q", k, v, gotQuery[k])
		}
	}

	if cw.Name != "Berlin" || cw.Country != "DE" {
		t.Errorf("неожиданное место %s, %s", cw.Name, cw.Country)
	}
	if cw.Main.Temp != 18.6 || cw.Main.GrndLevel != 1008 {
		t.Errorf("неожиданные показатели %+v", cw.Main)
	}
	if cw.WindSpeed != 3.6 {
		t.Errorf("ожидался ветер 3.6, получено %v", cw.WindSpeed)
	}
	if cw.Rain1h == nil || *cw.Rain1h != 0.25 {
		t.Errorf("ожидались осадки 0.25, получено %v", cw.Rain1h)
	}
	if cw.Condition.Icon != "10d" || cw.Condition.ID != 500 {
		t.Errorf("неожиданные условия %+v", cw.Condition)
	}
	if cw.TimezoneOffset != 7200 {
		t.Errorf("ожидалось смещение 7200, получено %d", cw.TimezoneOffset)
	}
}

func TestCurrentWeatherWithoutRain(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Cairo","sys":{"country":"EG"},"weather":[{"icon":"01d"}]}`))
	})

	cw, err := p.CurrentWeather(context.Background(), models.Coordinates{Lat: 30, Lon: 31})
	if err != nil {
		t.Fatalf("CurrentWeather вернул ошибку: %v", err)
	}
	if cw.Rain1h != nil {
		t.Errorf("осадков нет, ожидался nil, получено %v", *cw.Rain1h)
	}
}

func TestCurrentWeatherNoConditions(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Nowhere","weather":[]}`))
	})

	_, err := p.CurrentWeather(context.Background(), models.Coordinates{})
	if !errors.Is(err, ErrNoConditions) {
		t.Fatalf("ожидалась ErrNoConditions, получено %v", err)
	}
}

func TestForecast(t *testing.T) {
	var gotCnt string
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("ожидался путь /forecast, получено %q", r.URL.Path)
		}
		gotCnt = r.URL.Query().Get("cnt")
		w.Write([]byte(forecastFixture))
	})

	f, err := p.Forecast(context.Background(), models.Coordinates{Lat: 52.52, Lon: 13.405}, 10)
	if err != nil {
		t.Fatalf("Forecast вернул ошибку: %v", err)
	}
	if gotCnt != "10" {
		t.Errorf("ожидался cnt=10, получено %q", gotCnt)
	}
	if len(f.Points) != 3 {
		t.Fatalf("ожидалось 3 точки, получено %d", len(f.Points))
	}

	wantOrder := []int64{1760706000, 1760716800, 1760727600}
	for i, ts := range wantOrder {
		if f.Points[i].Timestamp != ts {
			t.Errorf("точка %d: ожидалось %d, получено %d", i, ts, f.Points[i].Timestamp)
		}
	}
	if f.Points[1].Condition.Icon != "01n" {
		t.Errorf("ожидалась иконка 01n, получено %q", f.Points[1].Condition.Icon)
	}
	if f.Points[2].Condition != (models.Condition{}) {
		t.Errorf("точка без условий должна иметь пустое условие, получено %+v", f.Points[2].Condition)
	}
}

func TestForecastTruncatesToCount(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(forecastFixture))
	})

	f, err := p.Forecast(context.Background(), models.Coordinates{}, 2)
	if err != nil {
		t.Fatalf("Forecast вернул ошибку: %v", err)
	}
	if len(f.Points) != 2 {
		t.Errorf("ожидалось 2 точки, получено %d", len(f.Points))
	}
}

func TestOpenWeatherErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"cod":401,"message":"Invalid API key"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnauthorized) {
					t.Errorf("ожидалась ErrUnauthorized, получено %v", err)
				}
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"cod":"404","message":"city not found"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("ожидалась ErrNotFound, получено %v", err)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   `{"cod":502,"message":"upstream down"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("ожидалась *APIError, получено %v", err)
				}
				if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream down" {
					t.Errorf("неожиданная ошибка %+v", apiErr)
				}
			},
		},
		{
			name:   "bad json",
			status: http.StatusOK,
			body:   `{"name":`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Error("ожидалась ошибка парсинга")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := p.CurrentWeather(context.Background(), models.Coordinates{})
			tt.check(t, err)
		})
	}
}

func TestOpenWeatherNotConfigured(t *testing.T) {
	p := NewOpenWeatherProvider("", "", time.Second)
	if p.IsAvailable() {
		t.Fatal("провайдер без ключа не должен быть доступен")
	}
	if _, err := p.Forecast(context.Background(), models.Coordinates{}, 1); err == nil {
		t.Fatal("ожидалась ошибка для ненастроенного провайдера")
	}
}

func TestOpenWeatherRespectsContext(t *testing.T) {
	p := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.CurrentWeather(ctx, models.Coordinates{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидалась context.Canceled, получено %v", err)
	}
}
