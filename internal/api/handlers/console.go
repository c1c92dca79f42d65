package handlers

import (
	"net/http"

	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/gorilla/websocket"
)

// ConsoleHandler отдает журнал активности: историю по HTTP и живой поток
// по websocket. Заменяет консоль исходного приложения.
type ConsoleHandler struct {
	activity *services.ActivityLog
	logger   interfaces.LoggerPort
	upgrader websocket.Upgrader
}

// NewConsoleHandler создает новый обработчик консоли
func NewConsoleHandler(activity *services.ActivityLog, logger interfaces.LoggerPort) *ConsoleHandler {
	return &ConsoleHandler{
		activity: activity,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// сервер слушает только loopback, происхождение не проверяем
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetRecent возвращает последние записи журнала активности
func (h *ConsoleHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.activity.Recent())
}

// Stream отдает записи журнала по websocket: сначала накопленную историю,
// затем новые записи по мере появления
func (h *ConsoleHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка открытия websocket",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ch, unsubscribe := h.activity.Subscribe()
	defer unsubscribe()

	for _, entry := range h.activity.Recent() {
		if err := conn.WriteJSON(entry); err != nil {
			return
		}
	}

	// читатель нужен только для детекции закрытия соединения клиентом
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case entry, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		}
	}
}
