package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/athebyme/funpay-helper/config"
	"github.com/athebyme/funpay-helper/internal/adapters/cache"
	"github.com/athebyme/funpay-helper/internal/adapters/funpay"
	"github.com/athebyme/funpay-helper/internal/adapters/logger"
	"github.com/athebyme/funpay-helper/internal/adapters/notify"
	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/api"
	"github.com/athebyme/funpay-helper/internal/api/handlers"
	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	var cacheClient interfaces.CachePort
	if cfg.Redis.Enabled {
		cacheClient, err = cache.NewRedisCache(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Ошибка инициализации кэша", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		defer cacheClient.Close()
		log.Info("Кэш инициализирован")
	}

	settings := storage.NewFileSettings(storage.Paths{
		Dir:            cfg.Files.Dir,
		GoldenKey:      cfg.Files.GoldenKey,
		Greeting:       cfg.Files.Greeting,
		AccountName:    cfg.Files.AccountName,
		Mail:           cfg.Files.Mail,
		Password:       cfg.Files.Password,
		DiscordWebhook: cfg.Files.DiscordWebhook,
		TelegramToken:  cfg.Files.TelegramToken,
		TelegramChatID: cfg.Files.TelegramChatID,
	}, log)
	log.Info("Хранилище настроек инициализировано")

	activity := services.NewActivityLog(cfg.Console.History, log)

	notifier := notify.NewNotifier(settings.NotificationTargets(), cfg.Listener.SendTimeout, activity, log)
	log.Info("Рассылка оповещений инициализирована")

	client := funpay.NewUnavailableClient(log)

	catalog := services.NewCatalogService(client, cacheClient, cfg.Redis.SnapshotTTL, activity, log)
	catalog.RestoreFromCache(ctx)

	catalogPath := cfg.Files.Catalog
	if !filepath.IsAbs(catalogPath) && cfg.Files.Dir != "" {
		catalogPath = filepath.Join(cfg.Files.Dir, catalogPath)
	}

	resolver := services.NewDeliveryResolver()
	listeners := services.NewListenerService(client, notifier, activity, log, resolver, catalog, catalogPath, cfg.Listener.StopWait)
	script := services.NewScriptService(activity, log)
	log.Info("Сервисы инициализированы")

	router := api.SetupRouter(api.Handlers{
		Settings:      handlers.NewSettingsHandler(settings, activity, log),
		Notifications: handlers.NewNotificationsHandler(settings, notifier, activity, log, cfg.AppName),
		Catalog:       handlers.NewCatalogHandler(catalog, settings, catalogPath, log),
		Listeners:     handlers.NewListenersHandler(listeners, settings, log),
		Script:        handlers.NewScriptHandler(script, log),
		Console:       handlers.NewConsoleHandler(activity, log),
	}, log)
	log.Info("Маршрутизатор настроен")

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port),
			Handler: metricsMux,
		}
		go func() {
			log.Info("Сервер метрик запущен", interfaces.LogField{Key: "address", Value: metricsServer.Addr})
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Ошибка сервера метрик", interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Ошибка запуска сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка при graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Error("Ошибка остановки сервера метрик", interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}

		log.Info("Остановка слушателей и скрипта...")
		listeners.StopAll()
		script.Stop()

		if cacheClient != nil {
			if err := cacheClient.Close(); err != nil {
				log.Error("Ошибка при закрытии Redis",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}

		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}
