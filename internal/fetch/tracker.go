package fetch

import (
	"sync"

	"github.com/aristath/stockcircle/internal/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handle identifies one started load.
type Handle struct {
	ID  uuid.UUID
	Key string
	gen uint64
	seq uint64
}

// Tracker remembers which key a view is currently loading. A result is kept only while the
// key that started it is still the current key and no session change happened in between.
// Concurrent loads of the same key all succeed; the newest one to start wins the stored state.
type Tracker struct {
	mu          sync.Mutex
	key         string
	gen         uint64
	seq         uint64
	applied     uint64
	unsubscribe func()
	log         zerolog.Logger
}

// NewTracker creates a tracker that invalidates in-flight loads on SESSION_CHANGED.
// bus may be nil.
func NewTracker(name string, bus *events.Bus, log zerolog.Logger) *Tracker {
	t := &Tracker{
		log: log.With().Str("component", "tracker").Str("view", name).Logger(),
	}
	if bus != nil {
		t.unsubscribe = bus.Subscribe(events.SessionChanged, func(events.Event) {
			t.Invalidate()
		})
	}
	return t
}

// Start begins a load for key. Loads of any other key are superseded.
func (t *Tracker) Start(key string) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if key != t.key {
		t.key = key
		t.applied = 0
	}
	t.seq++
	return Handle{ID: uuid.New(), Key: key, gen: t.gen, seq: t.seq}
}

func (t *Tracker) valid(h Handle) bool {
	return h.ID != uuid.Nil && h.Key == t.key && h.gen == t.gen
}

// Current reports whether h's key is still the one being loaded.
func (t *Tracker) Current(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.valid(h)
}

// Commit reports whether h's result is still wanted. apply runs only when h also started
// after the last applied load of the same key, so an older result never overwrites a newer one.
// apply runs under the tracker lock and must not call back into the tracker.
func (t *Tracker) Commit(h Handle, apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.valid(h) {
		t.log.Debug().Str("key", h.Key).Str("task", h.ID.String()).Msg("Discarding stale result")
		return false
	}
	if h.seq > t.applied {
		apply()
		t.applied = h.seq
	}
	return true
}

// Invalidate discards whatever load is in flight.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	t.key = ""
	t.gen++
	t.applied = 0
	t.mu.Unlock()
}

// Close detaches the tracker from the event bus.
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}
