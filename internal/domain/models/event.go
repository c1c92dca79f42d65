package models

// EventType определяет тип события маркетплейса
type EventType int

const (
	// EventTypeOther — событие, не обрабатываемое сервисом
	EventTypeOther EventType = iota

	// EventTypeNewMessage — новое сообщение в чате
	EventTypeNewMessage

	// EventTypeNewOrder — новый оплаченный заказ
	EventTypeNewOrder
)

// Event представляет событие из потока маркетплейса.
// Событие потребляется циклом обработки ровно один раз и отбрасывается.
type Event struct {
	Type    EventType
	Message *Message
	Order   *Order
}
