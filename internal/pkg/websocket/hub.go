package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Envelope is the frame pushed to connected clients
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type delivery struct {
	userID string
	data   []byte
}

// Hub maintains the set of active clients and pushes messages to every
// session of a given user.
type Hub struct {
	// Registered clients organized by user ID
	clients map[string]map[*Client]bool

	deliver    chan delivery
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside the Run loop
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		deliver:    make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case d := <-h.deliver:
			h.deliverMessage(d)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	sessions, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := sessions[client]; !ok {
		return
	}

	delete(sessions, client)
	close(client.send)
	if len(sessions) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) deliverMessage(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.clients[d.userID]
	if !ok {
		h.logger.Debug().Str("userID", d.userID).Msg("No live sessions for recipient")
		return
	}

	for client := range sessions {
		select {
		case client.send <- d.data:
		default:
			// Slow consumer; drop the session rather than block the hub.
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sessions := range h.clients {
		for client := range sessions {
			h.removeLocked(client)
		}
	}
}

// PushToUser queues a message for every live session of userID.
// It never blocks the caller; when the hub is saturated the message is dropped.
func (h *Hub) PushToUser(userID, msgType string, data interface{}) error {
	payload, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return err
	}

	select {
	case h.deliver <- delivery{userID: userID, data: payload}:
	default:
		h.logger.Warn().Str("userID", userID).Str("type", msgType).Msg("Hub queue full, dropping push")
	}
	return nil
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// GetClientsCount returns the number of live sessions for a user
func (h *Hub) GetClientsCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
