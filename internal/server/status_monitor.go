package server

import (
	"sync"
	"time"

	"github.com/aristath/stockcircle/internal/events"
	"github.com/rs/zerolog"
)

// BackendStatus is the last reachability result reported by the health probe.
type BackendStatus struct {
	Known     bool      `json:"known"`
	Reachable bool      `json:"reachable"`
	Error     string    `json:"error,omitempty"`
	Since     time.Time `json:"since,omitempty"`
}

// Down reports whether the backend is known to be unreachable.
func (b BackendStatus) Down() bool {
	return b.Known && !b.Reachable
}

// StatusMonitor tracks backend reachability from BACKEND_STATUS_CHANGED events so pages can
// show a banner without probing on every request.
type StatusMonitor struct {
	mu          sync.RWMutex
	status      BackendStatus
	unsubscribe func()
	log         zerolog.Logger
}

// NewStatusMonitor creates a status monitor listening on bus. A nil bus leaves the status unknown.
func NewStatusMonitor(bus *events.Bus, log zerolog.Logger) *StatusMonitor {
	m := &StatusMonitor{
		log:         log.With().Str("component", "status_monitor").Logger(),
		unsubscribe: func() {},
	}
	if bus != nil {
		m.unsubscribe = bus.Subscribe(events.BackendStatusChanged, m.handle)
	}
	return m
}

func (m *StatusMonitor) handle(e events.Event) {
	data, ok := e.Data.(*events.BackendStatusChangedData)
	if !ok {
		return
	}

	m.mu.Lock()
	m.status = BackendStatus{
		Known:     true,
		Reachable: data.Reachable,
		Error:     data.Error,
		Since:     e.Timestamp,
	}
	m.mu.Unlock()

	if data.Reachable {
		m.log.Info().Msg("Backend reachable")
	} else {
		m.log.Warn().Str("error", data.Error).Msg("Backend unreachable")
	}
}

// Status returns the last known backend status.
func (m *StatusMonitor) Status() BackendStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Close stops listening for events.
func (m *StatusMonitor) Close() {
	m.unsubscribe()
}
