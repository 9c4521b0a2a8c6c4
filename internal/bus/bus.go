package bus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Типы событий, рассылаемых подписчикам
const (
	EventNewIncident      = "new-incident"
	EventNewRiskZone      = "new-risk-zone"
	EventIncidentUpdate   = "incident-update"
	EventIncidentResolved = "incident-resolved"
	EventStatsUpdate      = "stats-update"
)

// Event - конверт события: тип плюс полезная нагрузка
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Subscriber - подключенный наблюдатель. События приходят в канал Events
// в порядке публикации; закрытие Done означает отключение.
type Subscriber struct {
	ID     uuid.UUID
	Events chan Event
	Done   chan struct{}
}

// Bus - шина рассылки событий всем подключенным подписчикам.
// История не хранится: подписчик, подключившийся позже, должен
// синхронизироваться через полный снапшот, а не через повтор событий.
type Bus struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]*Subscriber
	buffer      int
	logger      *logrus.Logger
}

// New создает шину с заданным размером буфера на подписчика
func New(buffer int, logger *logrus.Logger) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subscribers: make(map[uuid.UUID]*Subscriber),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe регистрирует нового подписчика
func (b *Bus) Subscribe() *Subscriber {
	sub := &Subscriber{
		ID:     uuid.New(),
		Events: make(chan Event, b.buffer),
		Done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.subscribers[sub.ID] = sub
	b.mu.Unlock()

	b.logger.WithField("subscriber_id", sub.ID).Debug("Subscriber connected")
	return sub
}

// Unsubscribe отключает подписчика. Повторный вызов - no-op.
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropLocked(id)
}

func (b *Bus) dropLocked(id uuid.UUID) {
	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(sub.Done)
}

// Publish рассылает событие всем подписчикам. Вызовы сериализуются, поэтому
// каждый подписчик получает события в едином порядке публикации. Медленный
// подписчик с переполненным буфером отключается, чтобы не блокировать
// остальных: восстановиться он может через снапшот.
func (b *Bus) Publish(eventType string, data any) {
	event := Event{Event: eventType, Data: data}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		select {
		case sub.Events <- event:
		default:
			b.logger.WithField("subscriber_id", id).Warn("Subscriber too slow, dropping connection")
			b.dropLocked(id)
		}
	}
}

// SubscriberCount возвращает число подключенных подписчиков
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
