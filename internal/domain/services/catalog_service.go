package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/athebyme/funpay-helper/internal/domain/models"
	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
)

// snapshotCacheKey — ключ последнего снимка каталога в кэше
const snapshotCacheKey = "catalog:snapshot"

// CatalogService управляет каталогом автовыдачи: загрузка лотов из внешнего
// клиента, правка текстов выдачи в памяти и экспорт в JSON-файл, который
// затем перечитывается при выдаче заказа.
type CatalogService struct {
	mu       sync.Mutex
	snapshot []models.Lot

	client   interfaces.ClientPort
	cache    interfaces.CachePort
	cacheTTL time.Duration
	activity interfaces.ActivityPort
	logger   interfaces.LoggerPort
}

// NewCatalogService создает новый сервис каталога.
// Кэш опционален: nil отключает сохранение снимка между перезапусками.
func NewCatalogService(client interfaces.ClientPort, cache interfaces.CachePort, cacheTTL time.Duration, activity interfaces.ActivityPort, logger interfaces.LoggerPort) *CatalogService {
	return &CatalogService{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		activity: activity,
		logger:   logger,
	}
}

// RestoreFromCache восстанавливает последний снимок каталога из кэша
func (s *CatalogService) RestoreFromCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	data, err := s.cache.Get(ctx, snapshotCacheKey)
	if err != nil {
		if err != utils.ErrCacheMiss {
			s.logger.Warn("Не удалось прочитать снимок каталога из кэша",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		return
	}

	var lots []models.Lot
	if err := json.Unmarshal(data, &lots); err != nil {
		s.logger.Warn("Снимок каталога в кэше поврежден",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}

	s.mu.Lock()
	s.snapshot = lots
	s.mu.Unlock()

	s.activity.Publish("store", fmt.Sprintf("Снимок каталога восстановлен из кэша: %d лотов", len(lots)))
}

// Fetch загружает активные лоты продавца из внешнего клиента.
// Отсутствие подходящего метода у клиента — не фатальная ошибка:
// возвращается пустой список, причина попадает в журнал.
func (s *CatalogService) Fetch(ctx context.Context, goldenKey string) ([]models.Lot, error) {
	if goldenKey == "" {
		return nil, utils.ErrEmptyGoldenKey
	}

	acc, _, err := s.client.Login(ctx, goldenKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка авторизации во внешнем клиенте: %w", err)
	}

	profile, method := s.resolveProfile(ctx, acc)
	if profile == nil {
		return []models.Lot{}, nil
	}
	s.activity.Publish("store", "Профиль получен через "+method)

	raw, err := profile.Lots(ctx)
	if err != nil {
		s.activity.Publish("store", "Ошибка при получении лотов: "+err.Error())
		return []models.Lot{}, nil
	}

	lots := make([]models.Lot, len(raw))
	for i, lot := range raw {
		lots[i] = lot
		lots[i].DeliveryText = ""
	}

	s.mu.Lock()
	s.snapshot = lots
	s.mu.Unlock()

	s.storeToCache(ctx, lots)
	s.activity.Publish("store", fmt.Sprintf("Загружено лотов: %d", len(lots)))

	return s.Snapshot(), nil
}

// resolveProfile выбирает первый доступный способ получить профиль продавца.
// Порядок предпочтения повторяет версии внешней библиотеки:
// get_self, затем get_profile, затем get_user по собственному идентификатору.
func (s *CatalogService) resolveProfile(ctx context.Context, acc interfaces.AccountPort) (interfaces.ProfilePort, string) {
	type probe struct {
		name string
		get  func(context.Context) (interfaces.ProfilePort, error)
	}

	var probes []probe
	if p, ok := acc.(interfaces.SelfProvider); ok {
		probes = append(probes, probe{"get_self", p.GetSelf})
	}
	if p, ok := acc.(interfaces.ProfileProvider); ok {
		probes = append(probes, probe{"get_profile", p.GetProfile})
	}
	if p, ok := acc.(interfaces.UserProvider); ok {
		probes = append(probes, probe{"get_user", func(ctx context.Context) (interfaces.ProfilePort, error) {
			return p.GetUser(ctx, acc.ID())
		}})
	}

	if len(probes) == 0 {
		s.activity.Publish("store", "Не удалось получить профиль продавца: у клиента нет методов get_self/get_profile/get_user")
		return nil, ""
	}

	best := probes[0]
	profile, err := best.get(ctx)
	if err != nil {
		s.activity.Publish("store", fmt.Sprintf("Ошибка получения профиля через %s: %v", best.name, err))
		return nil, ""
	}

	return profile, best.name
}

// storeToCache сохраняет снимок каталога в кэш; ошибка только логируется
func (s *CatalogService) storeToCache(ctx context.Context, lots []models.Lot) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(lots)
	if err != nil {
		s.logger.Warn("Не удалось сериализовать снимок каталога",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}

	if err := s.cache.Set(ctx, snapshotCacheKey, data, s.cacheTTL); err != nil {
		s.logger.Warn("Не удалось сохранить снимок каталога в кэш",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// Snapshot возвращает копию текущего снимка каталога
func (s *CatalogService) Snapshot() []models.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Lot, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// SetDeliveryText меняет текст выдачи лота в текущем снимке.
// Единственное поле лота, которое мутирует после загрузки.
func (s *CatalogService) SetDeliveryText(lotID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snapshot {
		if s.snapshot[i].LotID == lotID {
			s.snapshot[i].DeliveryText = text
			return nil
		}
	}
	return utils.ErrLotNotFound
}

// Export сериализует текущий снимок каталога в файл по указанному пути
func (s *CatalogService) Export(path string) error {
	return s.ExportItems(s.Snapshot(), path)
}

// ExportItems сериализует переданный список лотов в файл, полностью
// заменяя прежнее содержимое. Формат файла — внешний контракт:
// JSON-массив с отступами, не-ASCII символы сохраняются как есть.
func (s *CatalogService) ExportItems(items []models.Lot, path string) error {
	if items == nil {
		items = []models.Lot{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("ошибка сериализации каталога: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("ошибка записи файла каталога %s: %w", path, err)
	}

	s.activity.Publish("store", fmt.Sprintf("Экспортировано в %s (%d поз.)", path, len(items)))
	return nil
}

// Load читает каталог из файла. Отсутствующий или поврежденный файл
// дает пустой список и запись в журнале, но никогда не ошибку.
func (s *CatalogService) Load(path string) []models.Lot {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.activity.Publish("store", "Файл каталога не найден: "+path)
		} else {
			s.activity.Publish("store", "Ошибка чтения файла каталога: "+err.Error())
		}
		return []models.Lot{}
	}

	var lots []models.Lot
	if err := json.Unmarshal(data, &lots); err != nil {
		s.activity.Publish("store", "Файл каталога поврежден: "+err.Error())
		return []models.Lot{}
	}

	return lots
}
