package interfaces

// ActivityPort определяет журнал активности, видимый оператору.
// Записи доставляются асинхронно, публикация никогда не блокирует вызывающего.
type ActivityPort interface {
	// Publish добавляет запись в журнал от имени указанного источника
	Publish(source, text string)
}
