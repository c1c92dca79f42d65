package services

import (
	"context"
	"sync"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// nopLogger — логгер-пустышка для тестов
type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{})                                {}
func (nopLogger) Info(msg string, args ...interface{})                                 {}
func (nopLogger) Warn(msg string, args ...interface{})                                 {}
func (nopLogger) Error(msg string, args ...interface{})                                {}
func (nopLogger) Fatal(msg string, args ...interface{})                                {}
func (nopLogger) InfoWithContext(ctx context.Context, msg string, args ...interface{}) {}
func (nopLogger) WarnWithContext(ctx context.Context, msg string, args ...interface{}) {}
func (nopLogger) ErrorWithContext(ctx context.Context, msg string, args ...interface{}) {
}
func (l nopLogger) WithField(key string, value interface{}) interfaces.LoggerPort { return l }
func (nopLogger) Sync() error                                                     { return nil }

// recordingActivity собирает опубликованные записи журнала
type recordingActivity struct {
	mu      sync.Mutex
	entries []string
}

func (a *recordingActivity) Publish(source, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, source+": "+text)
}

func (a *recordingActivity) All() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// recordingNotifier собирает разосланные тексты
type recordingNotifier struct {
	mu      sync.Mutex
	targets models.NotificationTargets
	sent    []string
}

func (n *recordingNotifier) Broadcast(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
}

func (n *recordingNotifier) SetTargets(t models.NotificationTargets) { n.targets = t }
func (n *recordingNotifier) Targets() models.NotificationTargets     { return n.targets }

func (n *recordingNotifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}

// fakeAccount — аккаунт с настраиваемыми возможностями.
// Какие из необязательных интерфейсов объявлять, решают обертки ниже.
type fakeAccount struct {
	id       int64
	username string

	mu       sync.Mutex
	messages []sentMessage
	sendErr  error
}

type sentMessage struct {
	chatID int64
	text   string
}

func (a *fakeAccount) ID() int64        { return a.id }
func (a *fakeAccount) Username() string { return a.username }

func (a *fakeAccount) SendMessage(ctx context.Context, chatID int64, text string) error {
	if a.sendErr != nil {
		return a.sendErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, sentMessage{chatID: chatID, text: text})
	return nil
}

func (a *fakeAccount) Messages() []sentMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]sentMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// selfAccount объявляет возможность get_self
type selfAccount struct {
	*fakeAccount
	profile interfaces.ProfilePort
	err     error
}

func (a *selfAccount) GetSelf(ctx context.Context) (interfaces.ProfilePort, error) {
	return a.profile, a.err
}

// profileAccount объявляет только возможность get_profile
type profileAccount struct {
	*fakeAccount
	profile interfaces.ProfilePort
}

func (a *profileAccount) GetProfile(ctx context.Context) (interfaces.ProfilePort, error) {
	return a.profile, nil
}

// chatFinderAccount объявляет возможность поиска чата по имени
type chatFinderAccount struct {
	*fakeAccount
	chats map[string]*models.Chat
}

func (a *chatFinderAccount) GetChatByName(ctx context.Context, name string) (*models.Chat, error) {
	return a.chats[name], nil
}

// fakeProfile — профиль с фиксированным списком лотов
type fakeProfile struct {
	lots []models.Lot
	err  error
}

func (p *fakeProfile) Lots(ctx context.Context) ([]models.Lot, error) {
	return p.lots, p.err
}

// fakeStream — поток событий поверх обычного канала
type fakeStream struct {
	events chan models.Event
	err    error
}

func (s *fakeStream) Listen(ctx context.Context) (<-chan models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

// fakeClient возвращает заранее подготовленные аккаунт и поток
type fakeClient struct {
	account  interfaces.AccountPort
	stream   interfaces.EventStreamPort
	loginErr error
}

func (c *fakeClient) Login(ctx context.Context, goldenKey string) (interfaces.AccountPort, interfaces.EventStreamPort, error) {
	if c.loginErr != nil {
		return nil, nil, c.loginErr
	}
	return c.account, c.stream, nil
}

// ptr возвращает указатель на значение
func ptr[T any](v T) *T { return &v }
