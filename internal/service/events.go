// events.go — справочник мероприятий для селектора консоли.
// Список мероприятий меняется редко, поэтому кэшируется в LRU с TTL
// отдельно для каждого токена (разные пользователи видят разные списки).
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Prathamesh2801/testingED-sub000/internal/domain/rbac"
	"github.com/Prathamesh2801/testingED-sub000/internal/eventapi"
)

// Prometheus-метрики кэша мероприятий.
var (
	eventsCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ec_events_cache_hits_total",
		Help: "Общее количество попаданий в кэш списка мероприятий.",
	})
	eventsCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ec_events_cache_misses_total",
		Help: "Общее количество промахов кэша списка мероприятий.",
	})
)

// EventDirectory — список мероприятий, доступных сессии.
type EventDirectory struct {
	api    EventAPI
	cache  *expirable.LRU[string, []eventapi.Event]
	logger *slog.Logger
}

// NewEventDirectory создаёт справочник мероприятий.
// maxSize — максимальное количество токенов в кэше, ttl — время жизни записи.
func NewEventDirectory(api EventAPI, maxSize int, ttl time.Duration, logger *slog.Logger) *EventDirectory {
	return &EventDirectory{
		api:    api,
		cache:  expirable.NewLRU[string, []eventapi.Event](maxSize, nil, ttl),
		logger: logger.With(slog.String("service", "event_directory")),
	}
}

// List возвращает мероприятия, доступные токену.
func (d *EventDirectory) List(ctx context.Context, token string) ([]eventapi.Event, error) {
	key := tokenKey(token)
	if events, ok := d.cache.Get(key); ok {
		eventsCacheHitsTotal.Inc()
		return events, nil
	}
	eventsCacheMissesTotal.Inc()

	events, err := d.api.ListEvents(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("загрузка мероприятий: %w", err)
	}
	d.cache.Add(key, events)
	return events, nil
}

// Forget удаляет кэш токена (выход пользователя).
func (d *EventDirectory) Forget(token string) {
	d.cache.Remove(tokenKey(token))
}

// Select проверяет выбор мероприятия: роль должна допускать переключение,
// а мероприятие — присутствовать в списке токена.
func (d *EventDirectory) Select(ctx context.Context, actor Actor, eventID string) error {
	if !rbac.CanSelectEvent(actor.Role) {
		return ErrForbidden
	}
	events, err := d.List(ctx, actor.Token)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(events, func(e eventapi.Event) bool { return e.ID == eventID }) {
		return fmt.Errorf("%w: мероприятие %q", ErrNotFound, eventID)
	}
	return nil
}

// Name возвращает название мероприятия по ID ("" — если не найдено
// или список недоступен).
func (d *EventDirectory) Name(ctx context.Context, token, eventID string) string {
	events, err := d.List(ctx, token)
	if err != nil {
		d.logger.Debug("Список мероприятий недоступен", slog.String("error", err.Error()))
		return ""
	}
	for _, e := range events {
		if e.ID == eventID {
			return e.Name
		}
	}
	return ""
}

// tokenKey — ключ кэша: токен не хранится в памяти в открытом виде.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
