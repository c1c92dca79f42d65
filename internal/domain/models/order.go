package models

// Order представляет заказ покупателя (внешняя сущность, только чтение).
// Используется исключительно для подбора текста автовыдачи, нигде не сохраняется.
type Order struct {
	// Title — короткое описание заказа, по нему ищется совпадение с лотом
	Title string

	// Description — полное описание заказа, по нему работает фильтр аккаунта
	Description string

	// BuyerID — идентификатор покупателя
	BuyerID int64

	// BuyerUsername — имя покупателя
	BuyerUsername string

	// ChatID — идентификатор чата с покупателем, если известен
	ChatID *int64

	// Subcategory — название подкатегории лота, если известно
	Subcategory *string
}

// Message представляет входящее сообщение чата
type Message struct {
	ChatID   int64
	AuthorID int64
	Text     string
}

// Chat представляет чат с покупателем
type Chat struct {
	ID   int64
	Name string
}
