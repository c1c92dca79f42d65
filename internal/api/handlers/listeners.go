package handlers

import (
	"net/http"

	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// ListenersHandler обработчик управления слушателями событий
type ListenersHandler struct {
	listeners *services.ListenerService
	settings  *storage.FileSettings
	logger    interfaces.LoggerPort
}

// NewListenersHandler создает новый обработчик слушателей
func NewListenersHandler(listeners *services.ListenerService, settings *storage.FileSettings, logger interfaces.LoggerPort) *ListenersHandler {
	return &ListenersHandler{
		listeners: listeners,
		settings:  settings,
		logger:    logger,
	}
}

// StartWelcome запускает слушателя приветствий с сохраненными настройками
func (h *ListenersHandler) StartWelcome(w http.ResponseWriter, r *http.Request) {
	creds := h.settings.Credentials()

	if err := h.listeners.StartWelcome(creds.GoldenKey, creds.Greeting); err != nil {
		respondError(w, r, http.StatusBadRequest, "start_failed", "Введите токен и приветствие.")
		return
	}
	respondOK(w, r, h.listeners.Status())
}

// StopWelcome останавливает слушателя приветствий
func (h *ListenersHandler) StopWelcome(w http.ResponseWriter, r *http.Request) {
	h.listeners.StopWelcome()
	respondOK(w, r, h.listeners.Status())
}

// StartAutoDeliver запускает слушателя автовыдачи с сохраненными настройками
func (h *ListenersHandler) StartAutoDeliver(w http.ResponseWriter, r *http.Request) {
	creds := h.settings.Credentials()

	if err := h.listeners.StartAutoDeliver(creds.GoldenKey, creds.AccountName, creds.Mail, creds.Password); err != nil {
		respondError(w, r, http.StatusBadRequest, "start_failed", "Введите токен, почту и пароль.")
		return
	}
	respondOK(w, r, h.listeners.Status())
}

// StopAutoDeliver останавливает слушателя автовыдачи
func (h *ListenersHandler) StopAutoDeliver(w http.ResponseWriter, r *http.Request) {
	h.listeners.StopAutoDeliver()
	respondOK(w, r, h.listeners.Status())
}

// StopAll останавливает обоих слушателей
func (h *ListenersHandler) StopAll(w http.ResponseWriter, r *http.Request) {
	h.listeners.StopAll()
	respondOK(w, r, h.listeners.Status())
}

// GetStatus возвращает состояния обоих слушателей
func (h *ListenersHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.listeners.Status())
}
