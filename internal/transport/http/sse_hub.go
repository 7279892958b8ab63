package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"vn.io.arda/realtime/internal/domain"
	"vn.io.arda/realtime/internal/realtime"
)

// Hub owns the transport side of live connections: one buffered send channel
// per handle. The user↔handle association itself lives in the realtime
// Registry, which the Hub keeps in lockstep on attach/detach.
// Single-instance model: all push delivery is in-process.
type Hub struct {
	mu       sync.RWMutex
	sinks    map[string]chan []byte
	registry *realtime.Registry
	buffer   int
}

// NewHub creates a Hub writing through to the given registry. buffer sizes
// each connection's send channel.
func NewHub(registry *realtime.Registry, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{
		sinks:    make(map[string]chan []byte),
		registry: registry,
		buffer:   buffer,
	}
}

// Attach creates the send channel for a new connection and registers the
// handle↔user association. The returned channel is drained by the SSE
// handler's write loop.
func (h *Hub) Attach(handle, userID string) <-chan []byte {
	ch := make(chan []byte, h.buffer)

	h.mu.Lock()
	h.sinks[handle] = ch
	h.mu.Unlock()

	h.registry.Register(handle, userID)

	log.Debug().Str("user", userID).Str("handle", handle).Msg("push channel connected")
	return ch
}

// Detach removes the connection and its registry association. Unknown
// handles are a no-op.
func (h *Hub) Detach(handle string) {
	h.registry.Unregister(handle)

	h.mu.Lock()
	delete(h.sinks, handle)
	h.mu.Unlock()

	log.Debug().Str("handle", handle).Msg("push channel disconnected")
}

// Push writes one frame to a single connection. The send is non-blocking: a
// connection whose buffer is full (slow or silently dead transport) is
// skipped and reported as a delivery failure, never waited on. Cleanup
// happens lazily when the handler observes the disconnect.
func (h *Hub) Push(handle string, msg domain.PushMessage) error {
	h.mu.RLock()
	ch, ok := h.sinks[handle]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("connection %s gone: %w", handle, domain.ErrDeliveryFailed)
	}

	select {
	case ch <- encodeFrame(msg):
		return nil
	default:
		return fmt.Errorf("connection %s send buffer full: %w", handle, domain.ErrDeliveryFailed)
	}
}

// ConnectedCount returns the number of attached connections.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

// encodeFrame formats a PushMessage as an SSE frame: "event: ...\ndata: {...}\n\n".
func encodeFrame(msg domain.PushMessage) []byte {
	var data []byte
	switch msg.Event {
	case "unread-count":
		data = []byte(`{"count":` + strconv.FormatInt(msg.Count, 10) + `}`)
	default:
		data, _ = json.Marshal(map[string]any{"kind": msg.Kind, "payload": msg.Payload})
	}
	return []byte("event: " + msg.Event + "\ndata: " + string(data) + "\n\n")
}
