package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"weather-screen/models"
)

const suggestionSystemPrompt = `You suggest what to do outside given the current weather.
Reply with a single JSON object and nothing else:
{"suggestion": "<one or two short sentences of advice>", "activities": ["<activity>", "..."]}
List between two and five activities.`

// GenerativeSuggestionProvider генерирует подсказку через OpenAI-совместимый
// chat completions API (по умолчанию эндпоинт Gemini)
type GenerativeSuggestionProvider struct {
	api     *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
	tracer  trace.Tracer
}

func NewGenerativeSuggestionProvider(apiKey, baseURL, model string, timeout time.Duration) *GenerativeSuggestionProvider {
	cfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	return &GenerativeSuggestionProvider{
		api:     openai.NewClientWithConfig(cfg),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		tracer:  otel.Tracer("weather-screen/providers"),
	}
}

func (p *GenerativeSuggestionProvider) Name() string {
	return "Suggestion (" + p.model + ")"
}

func (p *GenerativeSuggestionProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Suggest запрашивает подсказку по пяти параметрам текущей погоды
func (p *GenerativeSuggestionProvider) Suggest(ctx context.Context, req models.SuggestionRequest) (*models.Suggestion, error) {
	if !p.IsAvailable() {
		return nil, ErrSuggestionDisabled
	}

	ctx, span := p.tracer.Start(ctx, "suggestion.generate")
	defer span.End()
	span.SetAttributes(attribute.String("model", p.model), attribute.String("description", req.Description))

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: SuggestionPrompt(req)},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		span.RecordError(err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("ошибка генерации подсказки: %w", err)
	}
	if len(resp.Choices) == 0 {
		span.RecordError(ErrMalformedSuggestion)
		return nil, fmt.Errorf("%w: пустой список вариантов", ErrMalformedSuggestion)
	}

	suggestion, err := DecodeSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return suggestion, nil
}

// SuggestionPrompt формирует пользовательский запрос из параметров погоды
func SuggestionPrompt(req models.SuggestionRequest) string {
	tempUnit, windUnit := "°C", "m/s"
	switch req.Units {
	case "imperial":
		tempUnit, windUnit = "°F", "mph"
	case "standard":
		tempUnit = "K"
	}

	return fmt.Sprintf(
		"Temperature: %.1f%s\nFeels like: %.1f%s\nWind speed: %.1f %s\nHumidity: %.0f%%\nConditions: %s",
		req.Temperature, tempUnit,
		req.FeelsLike, tempUnit,
		req.WindSpeed, windUnit,
		req.Humidity,
		req.Description,
	)
}

// DecodeSuggestion разбирает JSON-строку ответа модели в Suggestion
func DecodeSuggestion(raw string) (*models.Suggestion, error) {
	out := strings.TrimSpace(raw)

	// модель иногда оборачивает ответ в ```json ... ```
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```JSON")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	var s models.Suggestion
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSuggestion, err)
	}

	s.Suggestion = strings.TrimSpace(s.Suggestion)
	if s.Suggestion == "" {
		return nil, fmt.Errorf("%w: пустой текст подсказки", ErrMalformedSuggestion)
	}

	activities := make([]string, 0, len(s.Activities))
	for _, a := range s.Activities {
		if a = strings.TrimSpace(a); a != "" {
			activities = append(activities, a)
		}
	}
	s.Activities = activities

	return &s, nil
}
