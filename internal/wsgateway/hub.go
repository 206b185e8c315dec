// Package wsgateway keeps websocket clients subscribed by user id and
// offers PushToUser and BroadcastLeaderboardUpdated for pushing
// leaderboard_updated and milestone_claimed events. No HTTP handler
// calls them, so submissions and claims push nothing; connected
// clients receive only the hub's periodic ping. It is optional: the
// HTTP boundary works without a connected client.
package wsgateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Hub maintains active clients and routes events to their
// subscribing user.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	userSubs   map[string]map[*Client]bool

	mu sync.RWMutex
}

const (
	EventLeaderboardUpdated = "leaderboard_updated"
	EventMilestoneClaimed   = "milestone_claimed"
)

// Event is the envelope pushed to subscribed clients.
type Event struct {
	Type      string      `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	HandshakeTimeout:  45 * time.Second,
	EnableCompression: true,
	CheckOrigin:       func(r *http.Request) bool { return true },
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client, 32),
		unregister: make(chan *Client, 32),
		clients:    make(map[*Client]bool),
		userSubs:   make(map[string]map[*Client]bool),
	}
}

// Run drives the hub's event loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.userSubs[client.userID] == nil {
				h.userSubs[client.userID] = make(map[*Client]bool)
			}
			h.userSubs[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if subs, exists := h.userSubs[client.userID]; exists {
					delete(subs, client)
					if len(subs) == 0 {
						delete(h.userSubs, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()
			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
				}
			}

		case <-ticker.C:
			h.ping()
		}
	}
}

// HandleWebSocket upgrades an inbound connection and registers it
// under the user_id query parameter. Authentication is the caller's
// responsibility (this route sits behind the same bearer-token
// resolution as the rest of the HTTP boundary).
func (h *Hub) HandleWebSocket(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error_kind": "MissingField", "message": "user_id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("wsgateway: upgrade failed: %v", err)
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, 64), userID: userID}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// PushToUser sends an event to every connection a user currently has
// open; a no-op when the user isn't connected.
func (h *Hub) PushToUser(userID string, eventType string, data interface{}) error {
	event := Event{Type: eventType, UserID: userID, Data: data, Timestamp: time.Now()}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients, exists := h.userSubs[userID]
	h.mu.RUnlock()
	if !exists {
		return nil
	}

	for client := range clients {
		select {
		case client.send <- payload:
		default:
			h.mu.Lock()
			delete(h.userSubs[userID], client)
			h.mu.Unlock()
		}
	}
	return nil
}

// BroadcastLeaderboardUpdated notifies every connected client that a
// board changed (the all-players/global board view).
func (h *Hub) BroadcastLeaderboardUpdated(gameID string, mode string) {
	event := Event{Type: EventLeaderboardUpdated, Data: map[string]string{"game_id": gameID, "mode": mode}, Timestamp: time.Now()}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("wsgateway: marshal leaderboard_updated: %v", err)
		return
	}
	h.broadcast <- payload
}

func (h *Hub) ping() {
	payload, _ := json.Marshal(Event{Type: "ping", Timestamp: time.Now()})
	h.broadcast <- payload
}
