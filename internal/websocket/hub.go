package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dukkan-shop/dukkan-backend/internal/app/model"
	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// Client is one connected dashboard session. A user may have several
// open tabs, each with its own client.
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans dashboard notifications out to every connected admin client
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

// Notification is the envelope every pushed message uses
type Notification struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes registrations and broadcasts until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Info("Notification client connected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Notification client disconnected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// send buffer full, drop the connection asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes one notification to every connected client. A full
// broadcast queue drops the message; notifications are advisory and the
// dashboard re-reads alert state on load.
func (h *Hub) Broadcast(notificationType string, payload interface{}) {
	data, err := json.Marshal(Notification{
		Type:    notificationType,
		Payload: payload,
	})
	if err != nil {
		logger.Error("Failed to marshal notification", err, map[string]interface{}{
			"type": notificationType,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, notification dropped", map[string]interface{}{
			"type": notificationType,
		})
	}
}

// BroadcastStockAlert pushes a low-stock alert to the dashboard.
// Satisfies the inventory service's notifier contract.
func (h *Hub) BroadcastStockAlert(alert *model.StockAlert) {
	h.Broadcast("stock_alert", alert)
}
