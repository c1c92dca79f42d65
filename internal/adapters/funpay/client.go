// Package funpay — точка подключения клиента маркетплейса.
// Конкретная реализация протокола поставляется отдельной сборкой;
// здесь живет заглушка, которая держит управляющий API работоспособным
// без подключенного клиента.
package funpay

import (
	"context"
	"errors"

	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// ErrClientUnavailable возвращается, когда клиент маркетплейса не подключен
var ErrClientUnavailable = errors.New("клиент маркетплейса не подключен в этой сборке")

// UnavailableClient реализация ClientPort без транспорта.
// Login всегда завершается ошибкой, поэтому слушатели сообщают
// "Фатальная ошибка" и остаются остановленными, а остальные разделы
// API управления работают в полном объеме.
type UnavailableClient struct {
	logger interfaces.LoggerPort
}

// NewUnavailableClient создает клиента-заглушку
func NewUnavailableClient(logger interfaces.LoggerPort) *UnavailableClient {
	return &UnavailableClient{logger: logger}
}

// Login всегда возвращает ErrClientUnavailable
func (c *UnavailableClient) Login(ctx context.Context, goldenKey string) (interfaces.AccountPort, interfaces.EventStreamPort, error) {
	c.logger.Warn("Попытка входа без подключенного клиента маркетплейса")
	return nil, nil, ErrClientUnavailable
}

// Заглушка сознательно не объявляет необязательных возможностей:
// SelfProvider, ProfileProvider, UserProvider и ChatFinder остаются
// за реализацией с транспортом.
var _ interfaces.ClientPort = (*UnavailableClient)(nil)
