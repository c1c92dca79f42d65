package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// SettingsHandler обработчик запросов настроек продавца
type SettingsHandler struct {
	settings *storage.FileSettings
	activity interfaces.ActivityPort
	logger   interfaces.LoggerPort
}

// NewSettingsHandler создает новый обработчик настроек
func NewSettingsHandler(settings *storage.FileSettings, activity interfaces.ActivityPort, logger interfaces.LoggerPort) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		activity: activity,
		logger:   logger,
	}
}

// GetSettings возвращает текущие настройки продавца
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.settings.Credentials())
}

// SaveSettings сохраняет настройки продавца в файлы
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Некорректное тело запроса")
		return
	}

	if err := h.settings.SaveCredentials(creds); err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка сохранения настроек",
			interfaces.LogField{Key: "error", Value: err.Error()})
		respondError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка сохранения настроек")
		return
	}

	h.activity.Publish("Settings", "Настройки сохранены.")
	respondOK(w, r, nil)
}
