package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weather-screen/models"
)

func chatCompletionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1760700000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestDecodeSuggestion(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantActs  []string
		wantError bool
	}{
		{
			name:     "plain json",
			raw:      `{"suggestion":"Great day for a walk.","activities":["walk","picnic"]}`,
			wantText: "Great day for a walk.",
			wantActs: []string{"walk", "picnic"},
		},
		{
			name:     "fenced json",
			raw:      "```json\n{\"suggestion\":\"Take an umbrella.\",\"activities\":[\"museum\"]}\n```",
			wantText: "Take an umbrella.",
			wantActs: []string{"museum"},
		},
		{
			name:     "blank activities dropped",
			raw:      `{"suggestion":" Stay in. ","activities":["", "  reading  "]}`,
			wantText: "Stay in.",
			wantActs: []string{"reading"},
		},
		{
			name:     "no activities",
			raw:      `{"suggestion":"Stay hydrated."}`,
			wantText: "Stay hydrated.",
			wantActs: []string{},
		},
		{name: "not json", raw: "Go for a walk!", wantError: true},
		{name: "empty suggestion", raw: `{"suggestion":"","activities":["x"]}`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSuggestion(tt.raw)
			if tt.wantError {
				if !errors.Is(err, ErrMalformedSuggestion) {
					t.Fatalf("ожидалась ErrMalformedSuggestion, получено %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSuggestion вернул ошибку: %v", err)
			}
			if s.Suggestion != tt.wantText {
				t.Errorf("текст: ожидалось %q, получено %q", tt.wantText, s.Suggestion)
			}
			if len(s.Activities) != len(tt.wantActs) {
				t.Fatalf("занятия: ожидалось %v, получено %v", tt.wantActs, s.Activities)
			}
			for i := range tt.wantActs {
				if s.Activities[i] != tt.wantActs[i] {
					t.Errorf("занятие %d: ожидалось %q, получено %q", i, tt.wantActs[i], s.Activities[i])
				}
			}
		})
	}
}

func TestSuggestionPrompt(t *testing.T) {
	prompt := SuggestionPrompt(models.SuggestionRequest{
		Temperature: 18.6,
		FeelsLike:   17.4,
		WindSpeed:   3.6,
		Humidity:    72,
		Description: "light rain",
		Units:       "metric",
	})

	for _, want := range []string{"18.6°C", "17.4°C", "3.6 m/s", "72%", "light rain"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("запрос не содержит %q:\n%s", want, prompt)
		}
	}

	imperial := SuggestionPrompt(models.SuggestionRequest{Units: "imperial"})
	if !strings.Contains(imperial, "°F") || !strings.Contains(imperial, "mph") {
		t.Errorf("ожидались имперские единицы:\n%s", imperial)
	}
}

func TestSuggest(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("неожиданный путь %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sugg-key" {
			t.Errorf("неожиданный заголовок Authorization %q", auth)
		}
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody(`{"suggestion":"Bring a jacket.","activities":["cafe","cinema"]}`))
	}))
	defer srv.Close()

	p := NewGenerativeSuggestionProvider("sugg-key", srv.URL, "test-model", 5*time.Second)
	s, err := p.Suggest(context.Background(), models.SuggestionRequest{
		Temperature: 11, FeelsLike: 9, WindSpeed: 5, Humidity: 80, Description: "overcast clouds", Units: "metric",
	})
	if err != nil {
		t.Fatalf("Suggest вернул ошибку: %v", err)
	}

	if s.Suggestion != "Bring a jacket." || len(s.Activities) != 2 {
		t.Errorf("неожиданная подсказка %+v", s)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("ожидалась модель test-model, получено %v", gotBody["model"])
	}
	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("ожидался JSON-режим, получено %v", gotBody["response_format"])
	}
}

func TestSuggestMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatCompletionBody("Sure! Go outside."))
	}))
	defer srv.Close()

	p := NewGenerativeSuggestionProvider("k", srv.URL, "m", time.Second)
	_, err := p.Suggest(context.Background(), models.SuggestionRequest{})
	if !errors.Is(err, ErrMalformedSuggestion) {
		t.Fatalf("ожидалась ErrMalformedSuggestion, получено %v", err)
	}
}

func TestSuggestDisabled(t *testing.T) {
	p := NewGenerativeSuggestionProvider("", "", "m", time.Second)
	_, err := p.Suggest(context.Background(), models.SuggestionRequest{})
	if !errors.Is(err, ErrSuggestionDisabled) {
		t.Fatalf("ожидалась ErrSuggestionDisabled, получено %v", err)
	}
}
