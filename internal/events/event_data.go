package events

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// SessionChangedData describes a login or logout.
type SessionChangedData struct {
	LoggedIn bool   `json:"logged_in"`
	UserID   string `json:"user_id,omitempty"`
}

// EventType returns the event type for SessionChangedData
func (d *SessionChangedData) EventType() EventType {
	return SessionChanged
}

// BackendStatusChangedData reports a change in backend reachability.
type BackendStatusChangedData struct {
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// EventType returns the event type for BackendStatusChangedData
func (d *BackendStatusChangedData) EventType() EventType {
	return BackendStatusChanged
}
