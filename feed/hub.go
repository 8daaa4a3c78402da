// Package feed fans live simulation snapshots out to every attached
// spectator. Subscribers hand over a writer and the hub pushes each
// broadcast to all of them; a subscriber that fails to write is logged
// and kept, it is the transport's job to tear down dead connections.
package feed

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tifye/dugout/assert"
)

const MessageSizeLimit = 65_535

// Message is the envelope every broadcast is wrapped in.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitzero,omitempty"`
}

type Hub struct {
	logger *log.Logger

	mu          sync.RWMutex
	subscribers map[uuid.UUID]func(data []byte) error
}

func NewHub(logger *log.Logger) *Hub {
	assert.AssertNotNil(logger)
	return &Hub{
		logger:      logger,
		subscribers: map[uuid.UUID]func(data []byte) error{},
	}
}

// Subscribe registers a writer and returns its subscription id. The
// writer is called from whichever goroutine broadcasts and must be
// safe for that.
func (h *Hub) Subscribe(write func(data []byte) error) uuid.UUID {
	assert.AssertNotNil(write)

	id := uuid.New()
	h.mu.Lock()
	h.subscribers[id] = write
	h.mu.Unlock()

	h.logger.Debug("subscribed", "id", id, "subscribers", h.Subscribers())
	return id
}

// Unsubscribe removes a subscriber. Unknown ids are a noop.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	delete(h.subscribers, id)
	h.mu.Unlock()

	h.logger.Debug("unsubscribed", "id", id, "subscribers", h.Subscribers())
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast marshals the payload into a typed envelope and pushes it
// to every subscriber. Write failures are logged and skipped so one
// stalled spectator never blocks the rest.
func (h *Hub) Broadcast(typ string, payload any) error {
	assert.AssertNotEmpty(typ)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json marshal payload: %s", err)
	}

	data, err := json.Marshal(Message{Type: typ, Payload: body})
	if err != nil {
		return fmt.Errorf("json marshal: %s", err)
	}
	assert.Assert(len(data) < MessageSizeLimit, fmt.Sprintf("message too big: %d", len(data)))

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, write := range h.subscribers {
		if err := write(data); err != nil {
			h.logger.Warn("write to subscriber", "id", id, "err", err)
		}
	}
	return nil
}
