package interfaces

import (
	"context"

	"github.com/athebyme/funpay-helper/internal/domain/models"
)

// ClientPort определяет вход во внешнюю клиентскую библиотеку маркетплейса.
// Сама библиотека (авторизация, long-poll транспорт) не является частью сервиса.
type ClientPort interface {
	// Login авторизуется по golden key и возвращает аккаунт и поток событий
	Login(ctx context.Context, goldenKey string) (AccountPort, EventStreamPort, error)
}

// AccountPort определяет гарантированные возможности аккаунта продавца.
// Дополнительные возможности (получение профиля, поиск чата) объявлены
// отдельными интерфейсами и проверяются через type assertion, поскольку
// разные версии клиентской библиотеки предоставляют разные методы.
type AccountPort interface {
	// ID возвращает идентификатор локального аккаунта
	ID() int64

	// Username возвращает имя локального аккаунта
	Username() string

	// SendMessage отправляет текст в чат с указанным идентификатором
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// SelfProvider — возможность get_self: профиль текущего аккаунта
type SelfProvider interface {
	GetSelf(ctx context.Context) (ProfilePort, error)
}

// ProfileProvider — возможность get_profile
type ProfileProvider interface {
	GetProfile(ctx context.Context) (ProfilePort, error)
}

// UserProvider — возможность get_user: профиль по идентификатору пользователя
type UserProvider interface {
	GetUser(ctx context.Context, userID int64) (ProfilePort, error)
}

// ChatFinder — возможность поиска чата по имени покупателя
type ChatFinder interface {
	GetChatByName(ctx context.Context, name string) (*models.Chat, error)
}

// ProfilePort определяет профиль продавца со списком лотов
type ProfilePort interface {
	// Lots возвращает активные лоты продавца
	Lots(ctx context.Context) ([]models.Lot, error)
}

// EventStreamPort определяет поток событий маркетплейса.
// Канал закрывается при завершении потока или отмене контекста.
type EventStreamPort interface {
	Listen(ctx context.Context) (<-chan models.Event, error)
}
