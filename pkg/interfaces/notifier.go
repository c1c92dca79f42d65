package interfaces

import (
	"context"

	"github.com/athebyme/funpay-helper/internal/domain/models"
)

// NotifierPort определяет интерфейс для внешних каналов оповещений.
// Отправка выполняется по принципу "лучшее из возможного": не настроенный
// или недоступный канал пропускается, ошибка никогда не возвращается вызывающему.
type NotifierPort interface {
	// Broadcast отправляет текст во все настроенные каналы независимо друг от друга
	Broadcast(ctx context.Context, text string)

	// SetTargets заменяет текущую конфигурацию каналов
	SetTargets(targets models.NotificationTargets)

	// Targets возвращает текущую конфигурацию каналов
	Targets() models.NotificationTargets
}
