package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DiscordSender отправляет текст в вебхук Discord
type DiscordSender struct {
	client *http.Client
}

// NewDiscordSender создает новый отправитель Discord
func NewDiscordSender(client *http.Client) *DiscordSender {
	return &DiscordSender{client: client}
}

// Send выполняет POST с JSON-телом {"content": text} на URL вебхука
func (d *DiscordSender) Send(ctx context.Context, webhookURL, text string) error {
	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("ошибка сериализации тела запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
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
