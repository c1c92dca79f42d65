package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListenerService(t *testing.T, client *fakeClient) (*ListenerService, *recordingNotifier, *recordingActivity, string) {
	t.Helper()

	notifier := &recordingNotifier{}
	activity := &recordingActivity{}
	catalog, _ := newCatalogService(client)
	catalogPath := filepath.Join(t.TempDir(), "autodelivery_items.json")

	svc := NewListenerService(client, notifier, activity, nopLogger{}, NewDeliveryResolver(), catalog, catalogPath, time.Second)
	return svc, notifier, activity, catalogPath
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond, msg)
}

func TestStartWelcome_Validation(t *testing.T) {
	svc, _, activity, _ := newListenerService(t, &fakeClient{})

	assert.ErrorIs(t, svc.StartWelcome("", "hi"), utils.ErrEmptyGoldenKey)
	assert.ErrorIs(t, svc.StartWelcome("token", "  "), utils.ErrEmptyGreeting)

	assert.Equal(t, ListenerStopped, svc.Status()["welcome"])
	assert.Contains(t, activity.All(), "Welcome: Введите токен и приветствие.")
}

func TestStartAutoDeliver_Validation(t *testing.T) {
	svc, _, _, _ := newListenerService(t, &fakeClient{})

	assert.ErrorIs(t, svc.StartAutoDeliver("", "", "m", "p"), utils.ErrEmptyGoldenKey)
	assert.ErrorIs(t, svc.StartAutoDeliver("token", "", "", "p"), utils.ErrEmptyMail)
	assert.ErrorIs(t, svc.StartAutoDeliver("token", "", "m", ""), utils.ErrEmptyPassword)

	assert.Equal(t, ListenerStopped, svc.Status()["autodelivery"])
}

func TestWelcome_GreetsIncomingMessage(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 4)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, notifier, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartWelcome("token", "Добро пожаловать!"))
	assert.Equal(t, ListenerRunning, svc.Status()["welcome"])

	// собственное сообщение игнорируется
	events <- models.Event{Type: models.EventTypeNewMessage, Message: &models.Message{ChatID: 1, AuthorID: 7, Text: "self"}}
	// чужое получает приветствие
	events <- models.Event{Type: models.EventTypeNewMessage, Message: &models.Message{ChatID: 42, AuthorID: 100, Text: "hello"}}

	waitFor(t, func() bool { return len(acc.Messages()) == 1 }, "приветствие не отправлено")

	sent := acc.Messages()
	assert.Equal(t, int64(42), sent[0].chatID)
	assert.Equal(t, "Добро пожаловать!", sent[0].text)

	svc.StopWelcome()
	assert.Equal(t, ListenerStopped, svc.Status()["welcome"])

	waitFor(t, func() bool {
		for _, text := range notifier.Sent() {
			if text == "⛔ Слушатель приветствий остановлен" {
				return true
			}
		}
		return false
	}, "нет оповещения об остановке")
}

func TestWelcome_IgnoresOrderEvents(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 1)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, notifier, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartWelcome("token", "hi"))
	waitFor(t, func() bool { return len(notifier.Sent()) >= 1 }, "слушатель не запустился")

	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{Title: "X", BuyerUsername: "b"}}

	svc.StopWelcome()
	assert.Empty(t, acc.Messages())
}

func TestAutoDeliver_SendsCatalogText(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 1)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, notifier, _, catalogPath := newListenerService(t, client)

	store, _ := newCatalogService(client)
	require.NoError(t, store.ExportItems([]models.Lot{
		{LotID: 1, Title: "Gold Pack", DeliveryText: "code123"},
	}, catalogPath))

	require.NoError(t, svc.StartAutoDeliver("token", "", "mail@x", "pass"))

	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Gold Pack",
		Description:   "Gold Pack, 1 шт.",
		BuyerID:       100,
		BuyerUsername: "buyer",
		ChatID:        ptr(int64(55)),
	}}

	waitFor(t, func() bool { return len(acc.Messages()) == 1 }, "выдача не отправлена")

	sent := acc.Messages()
	assert.Equal(t, int64(55), sent[0].chatID)
	assert.Equal(t, "code123", sent[0].text)

	waitFor(t, func() bool {
		for _, text := range notifier.Sent() {
			if text == "📦 Данные отправлены buyer (чат 55)" {
				return true
			}
		}
		return false
	}, "нет оповещения о выдаче")

	svc.StopAutoDeliver()
}

func TestAutoDeliver_FilterSkipsSilently(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 2)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, notifier, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartAutoDeliver("token", "Gold", "mail@x", "pass"))

	// описание без подстроки фильтра — молчаливый пропуск
	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Silver Pack",
		Description:   "Silver Pack, 1 шт.",
		BuyerUsername: "buyer",
		ChatID:        ptr(int64(55)),
	}}
	// следующий подходит — убеждаемся, что первый действительно пропущен
	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Gold Pack",
		Description:   "Gold Pack, 1 шт.",
		BuyerUsername: "buyer",
		ChatID:        ptr(int64(56)),
	}}

	waitFor(t, func() bool { return len(acc.Messages()) == 1 }, "подходящий заказ не выдан")
	assert.Equal(t, int64(56), acc.Messages()[0].chatID)

	for _, text := range notifier.Sent() {
		assert.NotContains(t, text, "Silver")
	}

	svc.StopAutoDeliver()
}

func TestAutoDeliver_FallbackWhenCatalogMisses(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 1)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, _, _, _ := newListenerService(t, client)

	// файла каталога нет — выдается запасное сообщение
	require.NoError(t, svc.StartAutoDeliver("token", "", "mail@example.com", "secret"))

	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Gold Pack",
		BuyerUsername: "Иван",
		ChatID:        ptr(int64(55)),
	}}

	waitFor(t, func() bool { return len(acc.Messages()) == 1 }, "выдача не отправлена")
	assert.Equal(t, "Привет, Иван!\nВот твой аккаунт:\nПочта: mail@example.com\nПароль: secret", acc.Messages()[0].text)

	svc.StopAutoDeliver()
}

func TestAutoDeliver_ResolvesChatByName(t *testing.T) {
	base := &fakeAccount{id: 7, username: "seller"}
	acc := &chatFinderAccount{
		fakeAccount: base,
		chats:       map[string]*models.Chat{"buyer": {ID: 77, Name: "buyer"}},
	}
	events := make(chan models.Event, 1)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, _, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartAutoDeliver("token", "", "mail@x", "pass"))

	// заказ без чата — поиск по имени покупателя
	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Gold Pack",
		BuyerUsername: "buyer",
	}}

	waitFor(t, func() bool { return len(base.Messages()) == 1 }, "выдача не отправлена")
	assert.Equal(t, int64(77), base.Messages()[0].chatID)

	svc.StopAutoDeliver()
}

func TestAutoDeliver_ChatNotFound(t *testing.T) {
	// аккаунт без возможности поиска чата
	acc := &fakeAccount{id: 7, username: "seller"}
	events := make(chan models.Event, 1)
	client := &fakeClient{account: acc, stream: &fakeStream{events: events}}
	svc, notifier, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartAutoDeliver("token", "", "mail@x", "pass"))

	events <- models.Event{Type: models.EventTypeNewOrder, Order: &models.Order{
		Title:         "Gold Pack",
		BuyerUsername: "buyer",
	}}

	waitFor(t, func() bool {
		for _, text := range notifier.Sent() {
			if text == "⚠️ Заказ от buyer подошел, но чат не найден." {
				return true
			}
		}
		return false
	}, "нет оповещения о потерянном чате")
	assert.Empty(t, acc.Messages())

	svc.StopAutoDeliver()
}

func TestConnectFailure_LeavesListenerStopped(t *testing.T) {
	client := &fakeClient{loginErr: assert.AnError}
	svc, notifier, activity, _ := newListenerService(t, client)

	require.NoError(t, svc.StartWelcome("token", "hi"))

	waitFor(t, func() bool { return svc.Status()["welcome"] == ListenerStopped }, "слушатель не остановился")

	var fatal bool
	for _, entry := range activity.All() {
		if entry == "Welcome: Фатальная ошибка: "+assert.AnError.Error() {
			fatal = true
		}
	}
	assert.True(t, fatal, "нет записи о фатальной ошибке")

	waitFor(t, func() bool {
		for _, text := range notifier.Sent() {
			if text == "⛔ Слушатель приветствий остановлен" {
				return true
			}
		}
		return false
	}, "нет оповещения об остановке")
}

func TestStop_OnStoppedListenerIsNoop(t *testing.T) {
	svc, notifier, _, _ := newListenerService(t, &fakeClient{})

	svc.StopWelcome()
	svc.StopAutoDeliver()
	svc.StopAll()

	assert.Equal(t, ListenerStopped, svc.Status()["welcome"])
	assert.Equal(t, ListenerStopped, svc.Status()["autodelivery"])
	assert.Empty(t, notifier.Sent())
}

func TestRestart_ReplacesRunningListener(t *testing.T) {
	acc := &fakeAccount{id: 7, username: "seller"}
	client := &fakeClient{account: acc, stream: &fakeStream{events: make(chan models.Event)}}
	svc, notifier, _, _ := newListenerService(t, client)

	require.NoError(t, svc.StartWelcome("token", "first"))
	require.NoError(t, svc.StartWelcome("token", "second"))

	assert.Equal(t, ListenerRunning, svc.Status()["welcome"])

	svc.StopAll()
	waitFor(t, func() bool {
		var stops int
		for _, text := range notifier.Sent() {
			if text == "⛔ Слушатель приветствий остановлен" {
				stops++
			}
		}
		return stops == 2
	}, "оба запуска должны сообщить об остановке")
}
