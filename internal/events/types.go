// Package events provides in-process publish/subscribe used to propagate session changes
// and backend status to interested components.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	SessionChanged       EventType = "SESSION_CHANGED"
	BackendStatusChanged EventType = "BACKEND_STATUS_CHANGED"
)

// Event is a single published event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}
