package api

import (
	"net/http"
	"time"

	"github.com/athebyme/funpay-helper/internal/api/handlers"
	"github.com/athebyme/funpay-helper/internal/api/middleware"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/go-chi/chi/v5"
)

// Handlers собирает обработчики всех разделов API управления
type Handlers struct {
	Settings      *handlers.SettingsHandler
	Notifications *handlers.NotificationsHandler
	Catalog       *handlers.CatalogHandler
	Listeners     *handlers.ListenersHandler
	Script        *handlers.ScriptHandler
	Console       *handlers.ConsoleHandler
}

// SetupRouter настраивает маршрутизатор API управления
func SetupRouter(h Handlers, logger interfaces.LoggerPort) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Поток консоли живет дольше любого таймаута запроса,
	// поэтому маршрут вынесен из группы с middleware.Timeout
	r.Get("/api/v1/console/stream", h.Console.Stream)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		// Настройки продавца
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.Settings.GetSettings)
			r.Put("/", h.Settings.SaveSettings)
		})

		// Каналы оповещений
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notifications.GetTargets)
			r.Put("/", h.Notifications.SaveTargets)
			r.Post("/test", h.Notifications.Test)
		})

		// Каталог автовыдачи
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.Catalog.GetSnapshot)
			r.Post("/fetch", h.Catalog.Fetch)
			r.Post("/export", h.Catalog.Export)
			r.Post("/load", h.Catalog.Load)
			r.Put("/{lotID}/delivery-text", h.Catalog.SetDeliveryText)
		})

		// Слушатели событий
		r.Route("/listeners", func(r chi.Router) {
			r.Get("/", h.Listeners.GetStatus)
			r.Post("/welcome/start", h.Listeners.StartWelcome)
			r.Post("/welcome/stop", h.Listeners.StopWelcome)
			r.Post("/autodelivery/start", h.Listeners.StartAutoDeliver)
			r.Post("/autodelivery/stop", h.Listeners.StopAutoDeliver)
			r.Post("/stop-all", h.Listeners.StopAll)
		})

		// Внешний скрипт
		r.Route("/script", func(r chi.Router) {
			r.Get("/", h.Script.GetStatus)
			r.Post("/run", h.Script.Run)
			r.Post("/stop", h.Script.Stop)
		})

		// История консоли
		r.Get("/console", h.Console.GetRecent)
	})

	return r
}
