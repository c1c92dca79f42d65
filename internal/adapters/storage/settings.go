package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// Paths описывает расположение файлов настроек "одно значение на файл".
// Формат зафиксирован внешним контрактом: обычный UTF-8 текст без схемы и версий.
type Paths struct {
	Dir            string
	GoldenKey      string
	Greeting       string
	AccountName    string
	Mail           string
	Password       string
	DiscordWebhook string
	TelegramToken  string
	TelegramChatID string
}

// FileSettings хранилище настроек в локальных текстовых файлах.
// Отсутствующий файл читается как пустая строка, запись полностью
// перезаписывает файл.
type FileSettings struct {
	paths  Paths
	logger interfaces.LoggerPort
}

// NewFileSettings создает новое файловое хранилище настроек
func NewFileSettings(paths Paths, logger interfaces.LoggerPort) *FileSettings {
	return &FileSettings{
		paths:  paths,
		logger: logger,
	}
}

// resolve возвращает абсолютный путь файла настройки
func (s *FileSettings) resolve(name string) string {
	if filepath.IsAbs(name) || s.paths.Dir == "" {
		return name
	}
	return filepath.Join(s.paths.Dir, name)
}

// readValue читает значение из файла; отсутствие файла — не ошибка
func (s *FileSettings) readValue(name string) string {
	data, err := os.ReadFile(s.resolve(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Не удалось прочитать файл настройки",
				interfaces.LogField{Key: "path", Value: name},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// writeValue перезаписывает файл настройки указанным значением
func (s *FileSettings) writeValue(name, value string) error {
	path := s.resolve(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ошибка создания каталога настроек: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("ошибка записи файла настройки %s: %w", name, err)
	}
	return nil
}

// Credentials читает настройки продавца из файлов
func (s *FileSettings) Credentials() models.Credentials {
	return models.Credentials{
		GoldenKey:   s.readValue(s.paths.GoldenKey),
		Greeting:    s.readValue(s.paths.Greeting),
		AccountName: s.readValue(s.paths.AccountName),
		Mail:        s.readValue(s.paths.Mail),
		Password:    s.readValue(s.paths.Password),
	}
}

// SaveCredentials сохраняет настройки продавца в файлы
func (s *FileSettings) SaveCredentials(c models.Credentials) error {
	values := []struct {
		name  string
		value string
	}{
		{s.paths.GoldenKey, c.GoldenKey},
		{s.paths.Greeting, c.Greeting},
		{s.paths.AccountName, c.AccountName},
		{s.paths.Mail, c.Mail},
		{s.paths.Password, c.Password},
	}

	for _, v := range values {
		if err := s.writeValue(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}

// NotificationTargets читает настройки каналов оповещений из файлов
func (s *FileSettings) NotificationTargets() models.NotificationTargets {
	return models.NotificationTargets{
		DiscordWebhook: s.readValue(s.paths.DiscordWebhook),
		TelegramToken:  s.readValue(s.paths.TelegramToken),
		TelegramChatID: s.readValue(s.paths.TelegramChatID),
	}
}

// SaveNotificationTargets сохраняет настройки каналов оповещений в файлы
func (s *FileSettings) SaveNotificationTargets(t models.NotificationTargets) error {
	values := []struct {
		name  string
		value string
	}{
		{s.paths.DiscordWebhook, strings.TrimSpace(t.DiscordWebhook)},
		{s.paths.TelegramToken, strings.TrimSpace(t.TelegramToken)},
		{s.paths.TelegramChatID, strings.TrimSpace(t.TelegramChatID)},
	}

	for _, v := range values {
		if err := s.writeValue(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}
