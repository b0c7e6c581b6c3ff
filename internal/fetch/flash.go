package fetch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultFlashTTL is how long a success message stays visible.
const DefaultFlashTTL = 3 * time.Second

// Flash is a transient success message that clears itself after its TTL.
type Flash struct {
	mu    sync.Mutex
	ttl   time.Duration
	msg   string
	id    uuid.UUID
	timer *time.Timer
}

// NewFlash creates a flash with ttl; ttl <= 0 selects DefaultFlashTTL.
func NewFlash(ttl time.Duration) *Flash {
	if ttl <= 0 {
		ttl = DefaultFlashTTL
	}
	return &Flash{ttl: ttl}
}

// Set shows msg, replacing any previous message and its timer.
func (f *Flash) Set(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	id := uuid.New()
	f.msg = msg
	f.id = id
	f.timer = time.AfterFunc(f.ttl, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// a newer message owns the slot now
		if f.id == id {
			f.msg = ""
			f.timer = nil
		}
	})
}

// Message returns the visible message or "".
func (f *Flash) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

// Clear hides the message immediately.
func (f *Flash) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.msg = ""
	f.id = uuid.Nil
}
