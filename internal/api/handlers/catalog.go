package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler обработчик запросов каталога автовыдачи
type CatalogHandler struct {
	catalog     *services.CatalogService
	settings    *storage.FileSettings
	catalogPath string
	logger      interfaces.LoggerPort
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalog *services.CatalogService, settings *storage.FileSettings, catalogPath string, logger interfaces.LoggerPort) *CatalogHandler {
	return &CatalogHandler{
		catalog:     catalog,
		settings:    settings,
		catalogPath: catalogPath,
		logger:      logger,
	}
}

// Fetch загружает активные лоты продавца из внешнего клиента.
// Токен берется из сохраненных настроек.
func (h *CatalogHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	creds := h.settings.Credentials()

	lots, err := h.catalog.Fetch(r.Context(), creds.GoldenKey)
	if err != nil {
		if err == utils.ErrEmptyGoldenKey {
			respondError(w, r, http.StatusBadRequest, "empty_golden_key", "Введите токен.")
			return
		}
		h.logger.ErrorWithContext(r.Context(), "Ошибка загрузки каталога",
			interfaces.LogField{Key: "error", Value: err.Error()})
		respondError(w, r, http.StatusBadGateway, "fetch_failed", err.Error())
		return
	}

	respondOK(w, r, lots)
}

// GetSnapshot возвращает текущий снимок каталога
func (h *CatalogHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.catalog.Snapshot())
}

// deliveryTextRequest тело запроса на смену текста выдачи
type deliveryTextRequest struct {
	DeliveryText string `json:"delivery_text"`
}

// SetDeliveryText меняет текст выдачи лота в текущем снимке
func (h *CatalogHandler) SetDeliveryText(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.ParseInt(chi.URLParam(r, "lotID"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Некорректный идентификатор лота")
		return
	}

	var req deliveryTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "bad_request", "Некорректное тело запроса")
		return
	}

	if err := h.catalog.SetDeliveryText(lotID, req.DeliveryText); err != nil {
		if err == utils.ErrLotNotFound {
			respondError(w, r, http.StatusNotFound, "lot_not_found", "Лот не найден в снимке каталога")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondOK(w, r, nil)
}

// Export записывает текущий снимок каталога в файл автовыдачи
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Export(h.catalogPath); err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка экспорта каталога",
			interfaces.LogField{Key: "error", Value: err.Error()})
		respondError(w, r, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	respondOK(w, r, nil)
}

// Load читает каталог из файла автовыдачи, не трогая снимок в памяти
func (h *CatalogHandler) Load(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, h.catalog.Load(h.catalogPath))
}
