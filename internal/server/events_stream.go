package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/stockcircle/internal/events"
	"github.com/rs/zerolog"
)

// streamedEventTypes are the events forwarded to browsers. Open pages reload on a session
// change so a logout in one tab is reflected everywhere.
var streamedEventTypes = []events.EventType{
	events.SessionChanged,
	events.BackendStatusChanged,
}

// EventsStreamHandler streams bus events to the browser as Server-Sent Events.
type EventsStreamHandler struct {
	eventBus  *events.Bus
	log       zerolog.Logger
	heartbeat time.Duration
}

// NewEventsStreamHandler creates a new events stream handler.
func NewEventsStreamHandler(eventBus *events.Bus, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		eventBus:  eventBus,
		log:       log.With().Str("component", "events_stream").Logger(),
		heartbeat: 30 * time.Second,
	}
}

// ServeHTTP handles GET /api/events/stream requests (SSE).
// The optional "types" query parameter is a comma separated filter.
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	allowed := streamedEventTypes
	if filter := r.URL.Query().Get("types"); filter != "" {
		allowed = nil
		for _, t := range strings.Split(filter, ",") {
			et := events.EventType(strings.TrimSpace(t))
			for _, known := range streamedEventTypes {
				if et == known {
					allowed = append(allowed, et)
				}
			}
		}
	}

	// The stream outlives the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.log.Debug().Err(err).Msg("Could not clear write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Buffered so Emit never blocks on a slow client
	eventChan := make(chan events.Event, 16)
	for _, et := range allowed {
		unsubscribe := h.eventBus.Subscribe(et, func(e events.Event) {
			select {
			case eventChan <- e:
			default:
				h.log.Warn().Str("event_type", string(e.Type)).Msg("Event channel full, dropping event")
			}
		})
		defer unsubscribe()
	}

	h.log.Debug().Int("types", len(allowed)).Msg("Client connected to event stream")

	h.send(w, map[string]interface{}{"type": "connected"})
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Debug().Msg("Client disconnected from event stream")
			return

		case e := <-eventChan:
			h.send(w, map[string]interface{}{
				"type":      string(e.Type),
				"module":    e.Module,
				"timestamp": e.Timestamp.Format(time.RFC3339),
				"data":      e.Data,
			})
			flusher.Flush()

		case <-heartbeat.C:
			h.send(w, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			flusher.Flush()
		}
	}
}

func (h *EventsStreamHandler) send(w http.ResponseWriter, event map[string]interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode event")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
