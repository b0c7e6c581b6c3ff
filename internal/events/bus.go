package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives published events. Handlers run synchronously on the emitting goroutine
// and must not block.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[EventType]map[int]Handler
	log    zerolog.Logger
}

// NewBus creates an empty bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[EventType]map[int]Handler),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers h for eventType and returns a function that removes it.
func (b *Bus) Subscribe(eventType EventType, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[eventType] == nil {
		b.subs[eventType] = make(map[int]Handler)
	}
	b.subs[eventType][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[eventType], id)
		})
	}
}

// Emit publishes typed data on behalf of module.
func (b *Bus) Emit(module string, data EventData) {
	event := Event{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event.Type]))
	for _, h := range b.subs[event.Type] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	b.log.Debug().
		Str("event_type", string(event.Type)).
		Str("module", module).
		Int("subscribers", len(handlers)).
		Msg("Event emitted")

	for _, h := range handlers {
		h(event)
	}
}

// SubscriberCount returns the number of handlers registered for eventType.
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}
