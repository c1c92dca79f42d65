package services

import (
	"sync"
	"time"

	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/google/uuid"
)

// subscriberBuffer — размер буфера канала подписчика журнала
const subscriberBuffer = 64

// ActivityEntry представляет одну запись журнала активности
type ActivityEntry struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
}

// ActivityLog журнал активности, видимый оператору: консоль исходного приложения.
// Хранит ограниченное число последних записей и раздает новые записи
// подписчикам (консоль по websocket). Публикация не блокирует воркеров:
// медленный подписчик теряет записи.
type ActivityLog struct {
	mu          sync.Mutex
	entries     []ActivityEntry
	limit       int
	subscribers map[string]chan ActivityEntry

	logger interfaces.LoggerPort
}

// NewActivityLog создает журнал с ограничением на число хранимых записей
func NewActivityLog(limit int, logger interfaces.LoggerPort) *ActivityLog {
	if limit <= 0 {
		limit = 500
	}
	return &ActivityLog{
		limit:       limit,
		subscribers: make(map[string]chan ActivityEntry),
		logger:      logger,
	}
}

// Publish добавляет запись в журнал и раздает ее подписчикам
func (a *ActivityLog) Publish(source, text string) {
	entry := ActivityEntry{
		ID:     uuid.New().String(),
		Time:   time.Now(),
		Source: source,
		Text:   text,
	}

	a.logger.Info("Журнал активности",
		interfaces.LogField{Key: "source", Value: source},
		interfaces.LogField{Key: "text", Value: text},
	)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, entry)
	if len(a.entries) > a.limit {
		a.entries = a.entries[len(a.entries)-a.limit:]
	}

	for _, sub := range a.subscribers {
		select {
		case sub <- entry:
		default:
			// подписчик не успевает, запись для него теряется
		}
	}
}

// Recent возвращает копию последних записей журнала
func (a *ActivityLog) Recent() []ActivityEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ActivityEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Subscribe регистрирует подписчика; возвращенная функция отменяет подписку
func (a *ActivityLog) Subscribe() (<-chan ActivityEntry, func()) {
	id := uuid.New().String()
	ch := make(chan ActivityEntry, subscriberBuffer)

	a.mu.Lock()
	a.subscribers[id] = ch
	a.mu.Unlock()

	unsubscribe := func() {
		a.mu.Lock()
		delete(a.subscribers, id)
		a.mu.Unlock()
	}

	return ch, unsubscribe
}
