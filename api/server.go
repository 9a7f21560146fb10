package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"weather-screen/models"
	"weather-screen/render"
	"weather-screen/screen"
)

// ScreenTimeout ограничение на сборку одного экрана
const ScreenTimeout = 30 * time.Second

// Server HTTP API экрана погоды
type Server struct {
	controller *screen.Controller
	router     *mux.Router
	server     *http.Server
	upgrader   websocket.Upgrader
	startTime  time.Time
	now        func() time.Time
}

// NewServer создаёт сервер и регистрирует маршруты
func NewServer(controller *screen.Controller, port string) *Server {
	s := &Server{
		controller: controller,
		router:     mux.NewRouter(),
		startTime:  time.Now(),
		now:        time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.routes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket и SSE держат соединение
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.router.Use(RequestID, CORS)

	s.router.HandleFunc("/", s.homeHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/screen", s.screenPageHandler).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/screen", s.screenStateHandler).Methods(http.MethodGet)
	api.HandleFunc("/screen/view", s.screenViewHandler).Methods(http.MethodGet)
	api.HandleFunc("/screen/ws", s.wsHandler).Methods(http.MethodGet)
	api.HandleFunc("/screen/events", s.sseHandler).Methods(http.MethodGet)
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(preflightHandler)
}

// Handler возвращает корневой обработчик (тесты, встраивание)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start блокирует до остановки сервера
func (s *Server) Start() error {
	log.Printf("Сервер запущен на %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// parseCoordinates читает координаты из параметров навигации (?lat=&lon=)
func parseCoordinates(r *http.Request) (models.Coordinates, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		return models.Coordinates{}, fmt.Errorf("%w: нужны параметры lat и lon", models.ErrInvalidCoordinates)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: lat: %v", models.ErrInvalidCoordinates, err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: lon: %v", models.ErrInvalidCoordinates, err)
	}

	coords := models.Coordinates{Lat: lat, Lon: lon}
	return coords, coords.Validate()
}

// loadScreen монтирует экран и ждёт завершения всех источников
func (s *Server) loadScreen(w http.ResponseWriter, r *http.Request) (models.ScreenState, bool) {
	coords, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректные координаты", err)
		return models.ScreenState{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), ScreenTimeout)
	defer cancel()

	state, err := s.controller.Run(ctx, coords, nil)
	if err != nil {
		writeError(w, http.StatusGatewayTimeout, "Экран не загружен", err)
		return models.ScreenState{}, false
	}
	return state, true
}

func (s *Server) screenStateHandler(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadScreen(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) screenViewHandler(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadScreen(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, render.Build(state, s.now()))
}

func (s *Server) screenPageHandler(w http.ResponseWriter, r *http.Request) {
	state, ok := s.loadScreen(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, render.Build(state, s.now())); err != nil {
		log.Printf("Ошибка отрисовки HTML: %v", err)
	}
}

// healthHandler проверка здоровья сервиса
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"units":     s.controller.Units(),
		"providers": s.controller.ProvidersInfo(),
	})
}

// homeHandler главная страница с описанием API
func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `
    <!DOCTYPE html>
    <html>
    <head>
        <title>Weather screen</title>
        <style>
            body { font-family: Arial, sans-serif; margin: 40px; }
            .container { max-width: 800px; margin: 0 auto; }
            .api-link { background: #f0f0f0; padding: 20px; border-radius: 5px; margin: 20px 0; }
            code { background: #eee; padding: 2px 4px; }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>🌤️ Weather screen</h1>
            <p>Текущая погода, прогноз и подсказка для точки.</p>

            <div class="api-link">
                <h3>API Endpoints:</h3>
                <ul>
                    <li><code>GET /screen?lat=52.52&lon=13.405</code> - HTML экран</li>
                    <li><code>GET /api/screen?lat=52.52&lon=13.405</code> - состояние экрана</li>
                    <li><code>GET /api/screen/view?lat=52.52&lon=13.405</code> - модель отображения</li>
                    <li><code>GET /api/screen/ws?lat=52.52&lon=13.405</code> - обновления через WebSocket</li>
                    <li><code>GET /api/screen/events?lat=52.52&lon=13.405</code> - обновления через SSE</li>
                    <li><code>GET /api/health</code> - проверка здоровья сервиса</li>
                </ul>
            </div>
        </div>
    </body>
    </html>
    `)
}

func preflightHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Ошибка кодирования ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
