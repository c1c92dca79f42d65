package services

import (
	"fmt"

	"github.com/athebyme/funpay-helper/internal/domain/models"
)

// fallbackTemplate — запасное сообщение с данными аккаунта,
// когда в каталоге не нашлось подходящего текста выдачи
const fallbackTemplate = "Привет, %s!\nВот твой аккаунт:\nПочта: %s\nПароль: %s"

// DeliveryResolver подбирает текст автовыдачи для заказа
type DeliveryResolver struct{}

// NewDeliveryResolver создает новый резолвер
func NewDeliveryResolver() *DeliveryResolver {
	return &DeliveryResolver{}
}

// Resolve возвращает текст выдачи для заказа. Порядок подбора:
// точное совпадение названия лота, затем совпадение подкатегории,
// затем запасное сообщение с почтой и паролем. Побеждает первое
// совпадение в порядке следования лотов в каталоге. Лот с пустым
// текстом выдачи совпадением не считается.
func (r *DeliveryResolver) Resolve(order models.Order, catalog []models.Lot, mail, password, buyerName string) string {
	for _, lot := range catalog {
		if lot.Title == order.Title && lot.DeliveryText != "" {
			return lot.DeliveryText
		}
	}

	if order.Subcategory != nil {
		for _, lot := range catalog {
			if lot.Subcategory != nil && *lot.Subcategory == *order.Subcategory && lot.DeliveryText != "" {
				return lot.DeliveryText
			}
		}
	}

	return fmt.Sprintf(fallbackTemplate, buyerName, mail, password)
}
