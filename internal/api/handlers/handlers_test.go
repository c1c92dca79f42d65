package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/athebyme/funpay-helper/internal/adapters/storage"
	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/internal/domain/services"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger — логгер-пустышка для тестов
type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{})                                 {}
func (nopLogger) Info(msg string, args ...interface{})                                  {}
func (nopLogger) Warn(msg string, args ...interface{})                                  {}
func (nopLogger) Error(msg string, args ...interface{})                                 {}
func (nopLogger) Fatal(msg string, args ...interface{})                                 {}
func (nopLogger) InfoWithContext(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) WarnWithContext(ctx context.Context, msg string, args ...interface{})  {}
func (nopLogger) ErrorWithContext(ctx context.Context, msg string, args ...interface{}) {}
func (l nopLogger) WithField(key string, value interface{}) interfaces.LoggerPort      { return l }
func (nopLogger) Sync() error                                                          { return nil }

// fakeNotifier — рассылка без сети для тестов обработчиков
type fakeNotifier struct {
	targets models.NotificationTargets
	sent    []string
}

func (n *fakeNotifier) Broadcast(ctx context.Context, text string) { n.sent = append(n.sent, text) }
func (n *fakeNotifier) SetTargets(t models.NotificationTargets)    { n.targets = t }
func (n *fakeNotifier) Targets() models.NotificationTargets        { return n.targets }

func newTestSettings(t *testing.T) *storage.FileSettings {
	t.Helper()
	return storage.NewFileSettings(storage.Paths{
		Dir:            t.TempDir(),
		GoldenKey:      "goldenkey.txt",
		Greeting:       "message.txt",
		AccountName:    "accountname.txt",
		Mail:           "account1mail.txt",
		Password:       "account1pass.txt",
		DiscordWebhook: "discord_webhook.txt",
		TelegramToken:  "telegram_token.txt",
		TelegramChatID: "telegram_chat_id.txt",
	}, nopLogger{})
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func TestSettingsHandler_SaveAndGet(t *testing.T) {
	settings := newTestSettings(t)
	activity := services.NewActivityLog(10, nopLogger{})
	h := NewSettingsHandler(settings, activity, nopLogger{})

	body := `{"golden_key":"abc","greeting":"Привет!","account_name":"Gold","mail":"m@x","password":"p"}`
	rec := httptest.NewRecorder()
	h.SaveSettings(rec, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSettings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var creds models.Credentials
	decodeData(t, rec, &creds)
	assert.Equal(t, "abc", creds.GoldenKey)
	assert.Equal(t, "Привет!", creds.Greeting)
}

func TestSettingsHandler_BadBody(t *testing.T) {
	h := NewSettingsHandler(newTestSettings(t), services.NewActivityLog(10, nopLogger{}), nopLogger{})

	rec := httptest.NewRecorder()
	h.SaveSettings(rec, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader("{oops")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationsHandler_SaveAppliesTargets(t *testing.T) {
	settings := newTestSettings(t)
	notifier := &fakeNotifier{}
	activity := services.NewActivityLog(10, nopLogger{})
	h := NewNotificationsHandler(settings, notifier, activity, nopLogger{}, "funpay-helper")

	body := `{"discord_webhook":"https://example.com/hook","telegram_token":"123:ABC","telegram_chat_id":"42"}`
	rec := httptest.NewRecorder()
	h.SaveTargets(rec, httptest.NewRequest(http.MethodPut, "/api/v1/notifications", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	// конфигурация применяется к рассылке сразу и сохраняется в файлы
	assert.Equal(t, "123:ABC", notifier.Targets().TelegramToken)
	assert.Equal(t, "123:ABC", settings.NotificationTargets().TelegramToken)
}

func TestNotificationsHandler_TestBroadcasts(t *testing.T) {
	notifier := &fakeNotifier{}
	h := NewNotificationsHandler(newTestSettings(t), notifier, services.NewActivityLog(10, nopLogger{}), nopLogger{}, "funpay-helper")

	rec := httptest.NewRecorder()
	h.Test(rec, httptest.NewRequest(http.MethodPost, "/api/v1/notifications/test", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "Test from funpay-helper")
}

func TestCatalogHandler_SetDeliveryTextUnknownLot(t *testing.T) {
	activity := services.NewActivityLog(10, nopLogger{})
	catalog := services.NewCatalogService(nil, nil, 0, activity, nopLogger{})
	h := NewCatalogHandler(catalog, newTestSettings(t), filepath.Join(t.TempDir(), "autodelivery_items.json"), nopLogger{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/catalog/99/delivery-text", strings.NewReader(`{"delivery_text":"code"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("lotID", "99")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.SetDeliveryText(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler_ExportThenLoad(t *testing.T) {
	activity := services.NewActivityLog(10, nopLogger{})
	catalog := services.NewCatalogService(nil, nil, 0, activity, nopLogger{})
	path := filepath.Join(t.TempDir(), "autodelivery_items.json")
	h := NewCatalogHandler(catalog, newTestSettings(t), path, nopLogger{})

	rec := httptest.NewRecorder()
	h.Export(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Load(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/load", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var lots []models.Lot
	decodeData(t, rec, &lots)
	assert.Empty(t, lots)
}

func TestCatalogHandler_FetchWithoutToken(t *testing.T) {
	activity := services.NewActivityLog(10, nopLogger{})
	catalog := services.NewCatalogService(nil, nil, 0, activity, nopLogger{})
	h := NewCatalogHandler(catalog, newTestSettings(t), filepath.Join(t.TempDir(), "x.json"), nopLogger{})

	// файл токена не создан — пустой golden key
	rec := httptest.NewRecorder()
	h.Fetch(rec, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/fetch", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScriptHandler_RunMissingPath(t *testing.T) {
	script := services.NewScriptService(services.NewActivityLog(10, nopLogger{}), nopLogger{})
	h := NewScriptHandler(script, nopLogger{})

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/script/run", strings.NewReader(`{"path":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/api/v1/script/run", strings.NewReader(`{"path":"/nonexistent.sh"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsoleHandler_GetRecent(t *testing.T) {
	activity := services.NewActivityLog(10, nopLogger{})
	activity.Publish("Welcome", "запущен")
	h := NewConsoleHandler(activity, nopLogger{})

	rec := httptest.NewRecorder()
	h.GetRecent(rec, httptest.NewRequest(http.MethodGet, "/api/v1/console", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []services.ActivityEntry
	decodeData(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "Welcome", entries[0].Source)
}
