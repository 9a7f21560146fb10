package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"
	// OpenAI-совместимый эндпоинт Gemini
	DefaultSuggestionURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultSuggestionModel = "gemini-2.0-flash"
)

type Config struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Units              string // metric, imperial, standard
	ForecastCount      int
	RequestTimeout     time.Duration

	SuggestionAPIKey  string
	SuggestionBaseURL string
	SuggestionModel   string

	ServerPort string
	ZipkinURL  string
	LogLevel   string
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", DefaultOpenWeatherURL),
		Units:              strings.ToLower(getEnv("UNITS", "metric")),
		ForecastCount:      getEnvAsInt("FORECAST_COUNT", 10),
		RequestTimeout:     time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 10)) * time.Second,
		SuggestionAPIKey:   getEnv("SUGGESTION_API_KEY", ""),
		SuggestionBaseURL:  getEnv("SUGGESTION_BASE_URL", DefaultSuggestionURL),
		SuggestionModel:    getEnv("SUGGESTION_MODEL", DefaultSuggestionModel),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ZipkinURL:          getEnv("ZIPKIN_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет обязательные поля и допустимые значения
func (c *Config) Validate() error {
	if c.OpenWeatherAPIKey == "" {
		return fmt.Errorf("не задан OPENWEATHER_API_KEY")
	}

	switch c.Units {
	case "metric", "imperial", "standard":
	default:
		return fmt.Errorf("неизвестная система единиц %q (metric, imperial, standard)", c.Units)
	}

	if c.ForecastCount < 1 || c.ForecastCount > 40 {
		return fmt.Errorf("FORECAST_COUNT должен быть от 1 до 40, получено %d", c.ForecastCount)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT должен быть положительным")
	}

	return nil
}

// SuggestionsEnabled сообщает, настроен ли провайдер подсказок
func (c *Config) SuggestionsEnabled() bool {
	return c.SuggestionAPIKey != ""
}

// Debug включает подробные логи переходов состояния экрана
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
