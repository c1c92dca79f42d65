package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// ScriptHandler обработчик запуска внешнего скрипта
type ScriptHandler struct {
	script *services.ScriptService
	logger interfaces.LoggerPort
}

// NewScriptHandler создает новый обработчик скриптов
func NewScriptHandler(script *services.ScriptService, logger interfaces.LoggerPort) *ScriptHandler {
	return &ScriptHandler{
		script: script,
		logger: logger,
	}
}

// runScriptRequest тело запроса на запуск скрипта
type runScriptRequest struct {
	Path  string `json:"path"`
	Debug bool   `json:"debug"`
}

// Run запускает внешний скрипт по указанному пути
func (h *ScriptHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Некорректное тело запроса")
		return
	}
	if req.Path == "" {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Не указан путь к скрипту")
		return
	}

	if err := h.script.Run(req.Path, req.Debug); err != nil {
		if err == utils.ErrScriptNotFound {
			respondError(w, r, http.StatusNotFound, "script_not_found", "Внешний скрипт не найден")
			return
		}
		h.logger.ErrorWithContext(r.Context(), "Ошибка запуска внешнего скрипта",
			interfaces.LogField{Key: "error", Value: err.Error()})
		respondError(w, r, http.StatusInternalServerError, "run_failed", err.Error())
		return
	}

	respondOK(w, r, map[string]bool{"running": h.script.Running()})
}

// Stop завершает работающий скрипт
func (h *ScriptHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.script.Stop()
	respondOK(w, r, map[string]bool{"running": h.script.Running()})
}

// GetStatus сообщает, выполняется ли скрипт
func (h *ScriptHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, map[string]bool{"running": h.script.Running()})
}
