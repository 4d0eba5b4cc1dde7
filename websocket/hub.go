package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a connected dashboard session.
type Client struct {
	Hub      *Hub
	UserID   uint
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Event is a booking lifecycle notification pushed to dashboards.
type Event struct {
	Type      string      `json:"type"`
	BookingID string      `json:"booking_id,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans booking events out to every connected dashboard.
type Hub struct {
	clients map[*Client]bool

	Broadcast  chan *Event
	Register   chan *Client
	Unregister chan *Client

	log *zap.Logger
	mu  sync.RWMutex
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan *Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
	}
}

// Run is the hub's main loop; start it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Info("dashboard connected", zap.Uint("user_id", client.UserID))

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.log.Info("dashboard disconnected", zap.Uint("user_id", client.UserID))

		case event := <-h.Broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer: drop it rather than block the hub.
			delete(h.clients, client)
			close(client.Send)
		}
	}
}

// BookingEvent queues a booking lifecycle event for broadcast. It never
// blocks: if the hub's queue is full the event is dropped, since the
// dashboard feed is best-effort.
func (h *Hub) BookingEvent(eventType, bookingID, actor string, data interface{}) {
	event := &Event{
		Type:      eventType,
		BookingID: bookingID,
		Actor:     actor,
		Data:      data,
		Timestamp: time.Now(),
	}
	select {
	case h.Broadcast <- event:
	default:
		h.log.Warn("event queue full, dropping event",
			zap.String("type", eventType),
			zap.String("booking_id", bookingID))
	}
}

// ConnectedCount returns the number of connected dashboards.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
