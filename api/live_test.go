package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"weather-screen/screen"
)

// brokenStream отвергает любую запись, как оборванное соединение
type brokenStream struct {
	header http.Header
}

func (b *brokenStream) Header() http.Header       { return b.header }
func (b *brokenStream) WriteHeader(int)           {}
func (b *brokenStream) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
func (b *brokenStream) Flush()                    {}

func TestSSEWriteErrorsAreLogged(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	c := screen.NewController(stubWeather{}, stubSuggester{}, "metric", 3)
	s := NewServer(c, "0")

	req := httptest.NewRequest(http.MethodGet, "/api/screen/events?lat=52.52&lon=13.405", nil)
	s.sseHandler(&brokenStream{header: http.Header{}}, req)

	if !strings.Contains(logs.String(), "Ошибка записи SSE") {
		t.Errorf("ошибка записи не попала в лог: %q", logs.String())
	}
}
