package websocket

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"backend/internal/utils"

	"go.uber.org/zap"
)

type Client struct {
	hub  *Hub
	conn ClientConn
	send chan []byte
	ID   string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

// Hub fans bus events out to every connected client as JSON frames of
// the shape {"event": ..., "data": ...}.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]bool),
		logger:     logger.Sugar(),
	}
}

// Attach subscribes the hub to every event on the bus. Call once
// before the bus starts delivering.
func (h *Hub) Attach(bus *utils.EventBus) {
	bus.Subscribe("", func(event utils.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Errorw("Failed to encode event for broadcast", "event", event.Event, "error", err)
			return
		}
		select {
		case h.broadcast <- payload:
		default:
			h.logger.Warnw("Broadcast queue full, dropping event", "event", event.Event)
		}
	})
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}
