package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/akehlen/buzzquiz/internal/model"
)

// Broadcaster pushes session events to SSE clients as JSON. It is the
// publisher the game and lobby controllers write to; publishing to a
// session with no hub is a no-op.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish broadcasts an event to all clients of its session. The SSE
// event name is the event type, the data is the JSON-encoded event.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil && event.Type != model.EventSessionEnded {
		return
	}

	if hub != nil {
		data, err := json.Marshal(event)
		if err != nil {
			b.logger.Error("sse failed to encode event",
				slog.String("session", string(event.SessionID)),
				slog.String("type", string(event.Type)),
				slog.Any("error", err))
			return
		}
		hub.BroadcastEvent(string(event.Type), string(data))
	}

	// A session that ended never broadcasts again; drop its hub
	if event.Type == model.EventSessionEnded {
		b.hubManager.RemoveHub(event.SessionID)
	}
}
