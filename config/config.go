package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	Metrics struct {
		Enabled bool
		Port    int
	}

	// Files — расположение локальных файлов настроек и файла каталога.
	// Имена файлов зафиксированы исходным приложением.
	Files struct {
		Dir            string
		GoldenKey      string
		Greeting       string
		AccountName    string
		Mail           string
		Password       string
		DiscordWebhook string
		TelegramToken  string
		TelegramChatID string
		Catalog        string
	}

	// Listener — тайминги слушателей событий
	Listener struct {
		StopWait    time.Duration // ожидание выхода цикла после сигнала остановки
		SendTimeout time.Duration // таймаут одной исходящей отправки оповещения
	}

	Redis struct {
		Enabled     bool
		Host        string
		Port        int
		Password    string
		DB          int
		SnapshotTTL time.Duration // срок хранения снимка каталога
	}

	Console struct {
		History int // число хранимых записей журнала активности
	}
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	var cfg Config

	viper.SetConfigName(configFile)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// файл не найден — работаем на значениях по умолчанию и переменных окружения
	}

	setDefaults()
	bindEnvVariables()

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	cfg.ENV = viper.GetString("env")
	if cfg.ENV == "" {
		cfg.ENV = "development"
	}

	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults() {
	// Основные настройки
	viper.SetDefault("appName", "funpay-helper")
	viper.SetDefault("version", "1.0.0")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("env", "development")

	// Настройки сервера управления
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.readTimeout", "10s")
	viper.SetDefault("server.writeTimeout", "10s")
	viper.SetDefault("server.shutdownTimeout", "5s")

	// Настройки метрик
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)

	// Файлы настроек (имена из исходного приложения)
	viper.SetDefault("files.dir", ".")
	viper.SetDefault("files.goldenKey", "goldenkey.txt")
	viper.SetDefault("files.greeting", "message.txt")
	viper.SetDefault("files.accountName", "accountname.txt")
	viper.SetDefault("files.mail", "account1mail.txt")
	viper.SetDefault("files.password", "account1pass.txt")
	viper.SetDefault("files.discordWebhook", "discord_webhook.txt")
	viper.SetDefault("files.telegramToken", "telegram_token.txt")
	viper.SetDefault("files.telegramChatID", "telegram_chat_id.txt")
	viper.SetDefault("files.catalog", "autodelivery_items.json")

	// Тайминги слушателей
	viper.SetDefault("listener.stopWait", "1s")
	viper.SetDefault("listener.sendTimeout", "10s")

	// Настройки Redis
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.snapshotTTL", "24h")

	// Журнал активности
	viper.SetDefault("console.history", 500)
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables() {
	// Основные настройки
	viper.BindEnv("appName", "APP_NAME")
	viper.BindEnv("version", "APP_VERSION")
	viper.BindEnv("logLevel", "LOG_LEVEL")
	viper.BindEnv("env", "APP_ENV")

	// Настройки сервера управления
	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Настройки метрик
	viper.BindEnv("metrics.enabled", "METRICS_ENABLED")
	viper.BindEnv("metrics.port", "METRICS_PORT")

	// Файлы настроек
	viper.BindEnv("files.dir", "FILES_DIR")
	viper.BindEnv("files.catalog", "FILES_CATALOG")

	// Тайминги слушателей
	viper.BindEnv("listener.stopWait", "LISTENER_STOP_WAIT")
	viper.BindEnv("listener.sendTimeout", "LISTENER_SEND_TIMEOUT")

	// Настройки Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.snapshotTTL", "REDIS_SNAPSHOT_TTL")

	// Журнал активности
	viper.BindEnv("console.history", "CONSOLE_HISTORY")
}
