package models

// Credentials содержит настройки продавца, хранящиеся в локальных файлах.
// Значения меняются только явным сохранением через API.
type Credentials struct {
	// GoldenKey — токен авторизации во внешнем клиенте
	GoldenKey string `json:"golden_key"`

	// Greeting — текст приветственного сообщения
	Greeting string `json:"greeting"`

	// AccountName — фильтр по подстроке в описании заказа; пустая строка отключает фильтр
	AccountName string `json:"account_name"`

	// Mail и Password — данные аккаунта для запасного сообщения автовыдачи
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// NotificationTargets содержит настройки каналов оповещений.
// Каждый канал опционален: отсутствие настройки — не ошибка, а пропуск отправки.
type NotificationTargets struct {
	// DiscordWebhook — URL вебхука Discord
	DiscordWebhook string `json:"discord_webhook"`

	// TelegramToken и TelegramChatID — пара для отправки через бота Telegram
	TelegramToken  string `json:"telegram_token"`
	TelegramChatID string `json:"telegram_chat_id"`
}
