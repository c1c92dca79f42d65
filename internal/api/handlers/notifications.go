package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// NotificationsHandler обработчик запросов настроек оповещений
type NotificationsHandler struct {
	settings *storage.FileSettings
	notifier interfaces.NotifierPort
	activity interfaces.ActivityPort
	logger   interfaces.LoggerPort
	appName  string
}

// NewNotificationsHandler создает новый обработчик оповещений
func NewNotificationsHandler(settings *storage.FileSettings, notifier interfaces.NotifierPort, activity interfaces.ActivityPort, logger interfaces.LoggerPort, appName string) *NotificationsHandler {
	return &NotificationsHandler{
		settings: settings,
		notifier: notifier,
		activity: activity,
		logger:   logger,
		appName:  appName,
	}
}

// GetTargets возвращает текущую конфигурацию каналов оповещений
func (h *NotificationsHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.notifier.Targets())
}

// SaveTargets сохраняет конфигурацию каналов и применяет ее к рассылке
func (h *NotificationsHandler) SaveTargets(w http.ResponseWriter, r *http.Request) {
	var targets models.NotificationTargets
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Некорректное тело запроса")
		return
	}

	if err := h.settings.SaveNotificationTargets(targets); err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка сохранения настроек оповещений",
			interfaces.LogField{Key: "error", Value: err.Error()})
		respondError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка сохранения настроек оповещений")
		return
	}

	h.notifier.SetTargets(targets)
	h.activity.Publish("Settings", "Оповещения сохранены.")
	respondOK(w, r, nil)
}

// Test рассылает тестовое сообщение во все настроенные каналы
func (h *NotificationsHandler) Test(w http.ResponseWriter, r *http.Request) {
	text := fmt.Sprintf("Test from %s at %s", h.appName, time.Now().Format(time.RFC3339))
	h.notifier.Broadcast(r.Context(), text)
	respondOK(w, r, nil)
}
