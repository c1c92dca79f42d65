package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// defaultTelegramAPI — базовый адрес Bot API
const defaultTelegramAPI = "https://api.telegram.org"

// TelegramSender отправляет текст через бота Telegram
type TelegramSender struct {
	client  *http.Client
	baseURL string
}

// NewTelegramSender создает новый отправитель Telegram
func NewTelegramSender(client *http.Client) *TelegramSender {
	return &TelegramSender{
		client:  client,
		baseURL: defaultTelegramAPI,
	}
}

// Send выполняет POST формы {chat_id, text} на метод sendMessage бота
func (t *TelegramSender) Send(ctx context.Context, botToken, chatID, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, botToken)

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 120))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
