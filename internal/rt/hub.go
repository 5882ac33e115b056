// Package rt pushes live message events to connected websocket clients.
package rt

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/seamshq/go-seams/internal/seams"
	"github.com/seamshq/go-seams/internal/store"
)

// Event is the wire shape pushed to subscribers when a message lands
// in a channel or dm they belong to.
type Event struct {
	Type      string        `json:"type"`
	ChannelID int           `json:"channel_id"`
	DMID      int           `json:"dm_id"`
	Message   store.Message `json:"message"`
}

type Hub struct {
	log *log.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub(l *log.Logger) *Hub {
	return &Hub{
		log:     l,
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(c.stop)
		return
	}
	h.clients[c] = struct{}{}
}

func (h *Hub) Deregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.stop)
	}
}

// MessagePosted implements seams.EventSink. The event is fanned out to
// every connected client whose user is a recipient.
func (h *Hub) MessagePosted(ev seams.MessageEvent) {
	payload, err := json.Marshal(Event{
		Type:      "message",
		ChannelID: ev.ChannelID,
		DMID:      ev.DMID,
		Message:   ev.Message,
	})
	if err != nil {
		h.log.Printf("marshal event: %s", err)
		return
	}

	recipients := make(map[int]struct{}, len(ev.Recipients))
	for _, uid := range ev.Recipients {
		recipients[uid] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if _, ok := recipients[c.userID]; ok {
			c.queue(payload)
		}
	}
}

func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.stop)
	}
}
