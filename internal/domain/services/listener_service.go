package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики для Prometheus
var listenerEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "helper_listener_events_total",
	Help: "Количество обработанных событий по слушателям и статусам",
}, []string{"listener", "status"})

// ListenerState состояние слушателя
type ListenerState string

const (
	// ListenerStopped — слушатель остановлен (начальное и конечное состояние)
	ListenerStopped ListenerState = "stopped"

	// ListenerRunning — слушатель потребляет поток событий
	ListenerRunning ListenerState = "running"
)

// listenerRun представляет один запуск слушателя.
// Отмена кооперативная: cancel выставляет сигнал, цикл проверяет его
// на границе каждой итерации; done закрывается при выходе из цикла.
type listenerRun struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// autoDeliverParams — копия настроек, захваченная на момент запуска.
// Воркер владеет своей копией, изменения настроек на него не влияют.
type autoDeliverParams struct {
	nameFilter string
	mail       string
	password   string
}

// ListenerService управляет двумя независимыми слушателями событий
// маркетплейса: приветствиями на новые сообщения и автовыдачей на новые
// заказы. Каждый слушатель — двухсостоянийный автомат Stopped → Running →
// Stopped; одновременно работает не больше одного экземпляра каждого вида.
type ListenerService struct {
	client      interfaces.ClientPort
	notifier    interfaces.NotifierPort
	activity    interfaces.ActivityPort
	logger      interfaces.LoggerPort
	resolver    *DeliveryResolver
	catalog     *CatalogService
	catalogPath string
	stopWait    time.Duration

	mu       sync.Mutex
	welcome  *listenerRun
	delivery *listenerRun
}

// NewListenerService создает новый сервис слушателей
func NewListenerService(
	client interfaces.ClientPort,
	notifier interfaces.NotifierPort,
	activity interfaces.ActivityPort,
	logger interfaces.LoggerPort,
	resolver *DeliveryResolver,
	catalog *CatalogService,
	catalogPath string,
	stopWait time.Duration,
) *ListenerService {
	if stopWait <= 0 {
		stopWait = time.Second
	}
	return &ListenerService{
		client:      client,
		notifier:    notifier,
		activity:    activity,
		logger:      logger,
		resolver:    resolver,
		catalog:     catalog,
		catalogPath: catalogPath,
		stopWait:    stopWait,
	}
}

// StartWelcome запускает слушателя приветствий.
// Пустой токен или пустое приветствие оставляют автомат остановленным.
func (s *ListenerService) StartWelcome(token, greeting string) error {
	if strings.TrimSpace(token) == "" {
		s.activity.Publish("Welcome", "Введите токен и приветствие.")
		return utils.ErrEmptyGoldenKey
	}
	if strings.TrimSpace(greeting) == "" {
		s.activity.Publish("Welcome", "Введите токен и приветствие.")
		return utils.ErrEmptyGreeting
	}

	// запуск нового экземпляра подразумевает остановку прежнего
	s.StopWelcome()

	ctx, cancel := context.WithCancel(context.Background())
	run := &listenerRun{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.welcome = run
	s.mu.Unlock()

	go s.runWelcome(ctx, run, token, greeting)
	return nil
}

// StartAutoDeliver запускает слушателя автовыдачи.
// Пустой токен, почта или пароль оставляют автомат остановленным.
func (s *ListenerService) StartAutoDeliver(token, nameFilter, mail, password string) error {
	if strings.TrimSpace(token) == "" {
		s.activity.Publish("AutoDeliver", "Введите токен, почту и пароль.")
		return utils.ErrEmptyGoldenKey
	}
	if strings.TrimSpace(mail) == "" {
		s.activity.Publish("AutoDeliver", "Введите токен, почту и пароль.")
		return utils.ErrEmptyMail
	}
	if strings.TrimSpace(password) == "" {
		s.activity.Publish("AutoDeliver", "Введите токен, почту и пароль.")
		return utils.ErrEmptyPassword
	}

	s.StopAutoDeliver()

	ctx, cancel := context.WithCancel(context.Background())
	run := &listenerRun{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	s.delivery = run
	s.mu.Unlock()

	params := autoDeliverParams{
		nameFilter: strings.TrimSpace(nameFilter),
		mail:       mail,
		password:   password,
	}
	go s.runAutoDeliver(ctx, run, token, params)
	return nil
}

// StopWelcome останавливает слушателя приветствий.
// Для уже остановленного слушателя вызов — no-op.
func (s *ListenerService) StopWelcome() {
	s.mu.Lock()
	run := s.welcome
	s.welcome = nil
	s.mu.Unlock()

	s.stopRun(run)
}

// StopAutoDeliver останавливает слушателя автовыдачи
func (s *ListenerService) StopAutoDeliver() {
	s.mu.Lock()
	run := s.delivery
	s.delivery = nil
	s.mu.Unlock()

	s.stopRun(run)
}

// StopAll останавливает обоих слушателей
func (s *ListenerService) StopAll() {
	s.StopWelcome()
	s.StopAutoDeliver()
}

// stopRun сигналит циклу о завершении и ждет выхода не дольше stopWait.
// Цикл может еще дообрабатывать текущее событие после истечения ожидания.
func (s *ListenerService) stopRun(run *listenerRun) {
	if run == nil {
		return
	}

	run.cancel()
	select {
	case <-run.done:
	case <-time.After(s.stopWait):
	}
}

// Status возвращает состояния обоих слушателей
func (s *ListenerService) Status() map[string]ListenerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]ListenerState{
		"welcome":      ListenerStopped,
		"autodelivery": ListenerStopped,
	}
	if s.welcome != nil {
		status["welcome"] = ListenerRunning
	}
	if s.delivery != nil {
		status["autodelivery"] = ListenerRunning
	}
	return status
}

// connect авторизуется и открывает поток событий.
// Ошибка на этом этапе фатальна для запуска: слушатель остается остановленным,
// повторный запуск — только вручную.
func (s *ListenerService) connect(ctx context.Context, tag, token string) (interfaces.AccountPort, <-chan models.Event, bool) {
	acc, stream, err := s.client.Login(ctx, token)
	if err != nil {
		s.activity.Publish(tag, "Фатальная ошибка: "+err.Error())
		listenerEvents.WithLabelValues(strings.ToLower(tag), "fatal").Inc()
		return nil, nil, false
	}

	events, err := stream.Listen(ctx)
	if err != nil {
		s.activity.Publish(tag, "Фатальная ошибка: "+err.Error())
		listenerEvents.WithLabelValues(strings.ToLower(tag), "fatal").Inc()
		return nil, nil, false
	}

	return acc, events, true
}

// runWelcome — цикл слушателя приветствий
func (s *ListenerService) runWelcome(ctx context.Context, run *listenerRun, token, greeting string) {
	defer close(run.done)
	defer s.clearWelcome(run)
	defer func() {
		s.activity.Publish("Welcome", "Слушатель приветствий остановлен.")
		s.notifier.Broadcast(context.Background(), "⛔ Слушатель приветствий остановлен")
	}()

	acc, events, ok := s.connect(ctx, "Welcome", token)
	if !ok {
		return
	}

	s.activity.Publish("Welcome", "Слушатель приветствий запущен.")
	s.notifier.Broadcast(ctx, "✅ Слушатель приветствий запущен")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			s.handleMessageEvent(ctx, acc, ev, greeting)
		}
	}
}

// runAutoDeliver — цикл слушателя автовыдачи
func (s *ListenerService) runAutoDeliver(ctx context.Context, run *listenerRun, token string, params autoDeliverParams) {
	defer close(run.done)
	defer s.clearAutoDeliver(run)
	defer func() {
		s.activity.Publish("AutoDeliver", "Слушатель автовыдачи остановлен.")
		s.notifier.Broadcast(context.Background(), "⛔ Слушатель автовыдачи остановлен")
	}()

	acc, events, ok := s.connect(ctx, "AutoDeliver", token)
	if !ok {
		return
	}

	s.activity.Publish("AutoDeliver", "Слушатель автовыдачи запущен.")
	s.notifier.Broadcast(ctx, "✅ Слушатель автовыдачи запущен")

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			s.handleOrderEvent(ctx, acc, ev, params)
		}
	}
}

// handleMessageEvent отправляет приветствие на новое входящее сообщение.
// Сообщения от собственного аккаунта игнорируются.
func (s *ListenerService) handleMessageEvent(ctx context.Context, acc interfaces.AccountPort, ev models.Event, greeting string) {
	if ev.Type != models.EventTypeNewMessage || ev.Message == nil {
		return
	}
	if ev.Message.AuthorID == acc.ID() {
		return
	}

	chatID := ev.Message.ChatID
	if err := acc.SendMessage(ctx, chatID, greeting); err != nil {
		s.activity.Publish("Welcome", "Ошибка: "+err.Error())
		listenerEvents.WithLabelValues("welcome", "error").Inc()
		return
	}

	info := fmt.Sprintf("Приветствие отправлено в чат %d", chatID)
	s.activity.Publish("Welcome", info)
	s.notifier.Broadcast(ctx, "💬 "+info)
	listenerEvents.WithLabelValues("welcome", "sent").Inc()
}

// handleOrderEvent выдает заказ: фильтр по описанию, подбор текста по
// каталогу (файл перечитывается на каждый заказ), отправка в чат покупателя.
func (s *ListenerService) handleOrderEvent(ctx context.Context, acc interfaces.AccountPort, ev models.Event, params autoDeliverParams) {
	if ev.Type != models.EventTypeNewOrder || ev.Order == nil {
		return
	}
	order := *ev.Order

	// заказ без подстроки фильтра пропускается молча
	if params.nameFilter != "" && !strings.Contains(order.Description, params.nameFilter) {
		listenerEvents.WithLabelValues("autodelivery", "filtered").Inc()
		return
	}

	catalog := s.catalog.Load(s.catalogPath)
	text := s.resolver.Resolve(order, catalog, params.mail, params.password, order.BuyerUsername)

	chatID, found := s.resolveChat(ctx, acc, order)
	if !found {
		info := fmt.Sprintf("Заказ от %s подошел, но чат не найден.", order.BuyerUsername)
		s.activity.Publish("AutoDeliver", info)
		s.notifier.Broadcast(ctx, "⚠️ "+info)
		listenerEvents.WithLabelValues("autodelivery", "no_chat").Inc()
		return
	}

	if err := acc.SendMessage(ctx, chatID, text); err != nil {
		s.activity.Publish("AutoDeliver", "Ошибка отправки: "+err.Error())
		listenerEvents.WithLabelValues("autodelivery", "error").Inc()
		return
	}

	info := fmt.Sprintf("Данные отправлены %s (чат %d)", order.BuyerUsername, chatID)
	s.activity.Publish("AutoDeliver", info)
	s.notifier.Broadcast(ctx, "📦 "+info)
	listenerEvents.WithLabelValues("autodelivery", "delivered").Inc()
}

// resolveChat определяет чат покупателя: сначала чат самого заказа,
// затем поиск по имени, если клиент поддерживает такую возможность
func (s *ListenerService) resolveChat(ctx context.Context, acc interfaces.AccountPort, order models.Order) (int64, bool) {
	if order.ChatID != nil {
		return *order.ChatID, true
	}

	finder, ok := acc.(interfaces.ChatFinder)
	if !ok {
		return 0, false
	}

	chat, err := finder.GetChatByName(ctx, order.BuyerUsername)
	if err != nil || chat == nil {
		return 0, false
	}
	return chat.ID, true
}

// clearWelcome снимает указатель на запуск, если он все еще актуален
func (s *ListenerService) clearWelcome(run *listenerRun) {
	s.mu.Lock()
	if s.welcome == run {
		s.welcome = nil
	}
	s.mu.Unlock()
}

// clearAutoDeliver снимает указатель на запуск, если он все еще актуален
func (s *ListenerService) clearAutoDeliver(run *listenerRun) {
	s.mu.Lock()
	if s.delivery == run {
		s.delivery = nil
	}
	s.mu.Unlock()
}
