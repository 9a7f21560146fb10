package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"weather-screen/models"
	"weather-screen/render"
)

const (
	MessageState = "state"
	MessageDone  = "done"
	MessageError = "error"
)

// LiveMessage сообщение потока обновлений экрана
type LiveMessage struct {
	Type  string              `json:"type"`
	State *models.ScreenState `json:"state,omitempty"`
	View  *render.Screen      `json:"view,omitempty"`
	Error string              `json:"error,omitempty"`
}

func (s *Server) stateMessage(typ string, state models.ScreenState) LiveMessage {
	view := render.Build(state, s.now())
	return LiveMessage{Type: typ, State: &state, View: &view}
}

// wsHandler держит экран смонтированным, пока открыт WebSocket.
// Закрытие соединения клиентом отменяет незавершённые запросы.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	coords, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректные координаты", err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Ошибка WebSocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), ScreenTimeout)
	defer cancel()

	// чтение нужно только чтобы заметить закрытие со стороны клиента
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("Ошибка WebSocket: %v", err)
				}
				return
			}
		}
	}()

	// onChange вызывается последовательно, запись в conn из одной горутины
	final, err := s.controller.Run(ctx, coords, func(state models.ScreenState) {
		if werr := conn.WriteJSON(s.stateMessage(MessageState, state)); werr != nil {
			log.Printf("Ошибка записи в WebSocket: %v", werr)
			cancel()
		}
	})
	if err != nil {
		if ctx.Err() == nil || ctx.Err() == context.DeadlineExceeded {
			if werr := conn.WriteJSON(LiveMessage{Type: MessageError, Error: err.Error()}); werr != nil {
				log.Printf("Ошибка записи в WebSocket: %v", werr)
			}
		}
		return
	}

	if err := conn.WriteJSON(s.stateMessage(MessageDone, final)); err != nil {
		log.Printf("Ошибка записи в WebSocket: %v", err)
		return
	}
	if err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "screen loaded"),
		time.Now().Add(time.Second),
	); err != nil {
		log.Printf("Ошибка закрытия WebSocket: %v", err)
	}
}

// sseHandler то же самое через server-sent events
func (s *Server) sseHandler(w http.ResponseWriter, r *http.Request) {
	coords, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректные координаты", err)
		return
	}

	flusher, ok := prepareSSE(w)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ScreenTimeout)
	defer cancel()

	final, err := s.controller.Run(ctx, coords, func(state models.ScreenState) {
		if werr := writeEvent(w, flusher, MessageState, s.stateMessage(MessageState, state)); werr != nil {
			cancel()
		}
	})
	if err != nil {
		if werr := writeEvent(w, flusher, MessageError, LiveMessage{Type: MessageError, Error: err.Error()}); werr != nil {
			log.Printf("Ошибка записи SSE: %v", werr)
		}
		return
	}
	if err := writeEvent(w, flusher, MessageDone, s.stateMessage(MessageDone, final)); err != nil {
		log.Printf("Ошибка записи SSE: %v", err)
	}
}

func prepareSSE(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return nil, false
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	return flusher, true
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
