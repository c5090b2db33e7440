package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/TiebenDepaepe/Stepoutx/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// Event is one notification pushed to admin dashboards
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of connected dashboards and fans events out to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events waiting to be fanned out
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards count for readers outside Run
	mu    sync.RWMutex
	count int

	now    func() time.Time
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.removeClient(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			metrics.EventConnections.Inc()
			h.logger.Info().
				Str("adminID", client.adminID.String()).
				Str("addr", client.addr).
				Msg("Dashboard connected")

		case client := <-h.unregister:
			if h.clients[client] {
				h.removeClient(client)
				h.logger.Info().
					Str("adminID", client.adminID.String()).
					Str("addr", client.addr).
					Msg("Dashboard disconnected")
			}

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount(len(h.clients))
	metrics.EventConnections.Dec()
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// slow consumer; drop the connection rather than block the hub
			h.removeClient(client)
			h.logger.Warn().Str("adminID", client.adminID.String()).Msg("Dropped slow dashboard")
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int("clientCount", len(h.clients)).
		Msg("Event broadcasted")
}

// Publish queues an event for every connected dashboard. It never blocks the
// caller; when the queue is full the event is dropped and logged.
func (h *Hub) Publish(eventType string, payload interface{}) {
	event := &Event{Type: eventType, Data: payload, Timestamp: h.now().UTC()}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("type", eventType).Msg("Event queue full, event dropped")
	}
}

// ClientsCount returns the number of connected dashboards
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}
