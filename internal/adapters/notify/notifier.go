package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики для Prometheus
var notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "helper_notifications_total",
	Help: "Количество попыток отправки оповещений по каналам и статусам",
}, []string{"target", "status"})

// Notifier реализация NotifierPort: рассылает текст во все настроенные каналы.
// Каждый канал обрабатывается независимо, результат каждой попытки
// (отправлено / пропущено / ошибка) попадает в журнал активности и никогда
// не возвращается вызывающему. Повторных попыток нет.
type Notifier struct {
	mu      sync.RWMutex
	targets models.NotificationTargets

	discord  *DiscordSender
	telegram *TelegramSender

	activity interfaces.ActivityPort
	logger   interfaces.LoggerPort
}

// NewNotifier создает новый Notifier с фиксированным таймаутом на отправку
func NewNotifier(targets models.NotificationTargets, sendTimeout time.Duration, activity interfaces.ActivityPort, logger interfaces.LoggerPort) *Notifier {
	client := &http.Client{Timeout: sendTimeout}

	return &Notifier{
		targets:  targets,
		discord:  NewDiscordSender(client),
		telegram: NewTelegramSender(client),
		activity: activity,
		logger:   logger,
	}
}

// SetTargets заменяет текущую конфигурацию каналов
func (n *Notifier) SetTargets(targets models.NotificationTargets) {
	n.mu.Lock()
	n.targets = targets
	n.mu.Unlock()
}

// Targets возвращает текущую конфигурацию каналов
func (n *Notifier) Targets() models.NotificationTargets {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.targets
}

// Broadcast отправляет текст во все настроенные каналы независимо друг от друга
func (n *Notifier) Broadcast(ctx context.Context, text string) {
	targets := n.Targets()
	n.sendDiscord(ctx, targets, text)
	n.sendTelegram(ctx, targets, text)
}

// sendDiscord отправляет текст в вебхук Discord
func (n *Notifier) sendDiscord(ctx context.Context, targets models.NotificationTargets, text string) {
	if targets.DiscordWebhook == "" {
		n.activity.Publish("Discord", "Webhook URL не задан — отправка пропущена.")
		notificationsSent.WithLabelValues("discord", "skipped").Inc()
		return
	}

	if err := n.discord.Send(ctx, targets.DiscordWebhook, text); err != nil {
		n.activity.Publish("Discord", "Ошибка: "+err.Error())
		notificationsSent.WithLabelValues("discord", "error").Inc()
		return
	}

	n.activity.Publish("Discord", "Отправлено.")
	notificationsSent.WithLabelValues("discord", "sent").Inc()
}

// sendTelegram отправляет текст через бота Telegram
func (n *Notifier) sendTelegram(ctx context.Context, targets models.NotificationTargets, text string) {
	if targets.TelegramToken == "" || targets.TelegramChatID == "" {
		n.activity.Publish("Telegram", "Токен или chat_id не заданы — отправка пропущена.")
		notificationsSent.WithLabelValues("telegram", "skipped").Inc()
		return
	}

	if err := n.telegram.Send(ctx, targets.TelegramToken, targets.TelegramChatID, text); err != nil {
		n.activity.Publish("Telegram", "Ошибка: "+err.Error())
		notificationsSent.WithLabelValues("telegram", "error").Inc()
		return
	}

	n.activity.Publish("Telegram", "Отправлено.")
	notificationsSent.WithLabelValues("telegram", "sent").Inc()
}
