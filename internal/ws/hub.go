// Package ws broadcasts instance events and the global feed to connected
// viewers, adapted from the teacher's game-room Hub: rooms keyed by string
// instance id instead of uuid.UUID game id, plus a GlobalRoom for feed-only
// subscribers not watching any one instance.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// GlobalRoom is the room id feed-only subscribers join.
const GlobalRoom = "global"

// Client is one connected viewer.
type Client struct {
	ID         uuid.UUID
	InstanceID string
	Conn       *websocket.Conn
	Send       chan []byte
}

// Hub fans out broadcasts to every client registered in a room.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan BroadcastMessage
}

// BroadcastMessage carries a payload to every client in one room.
type BroadcastMessage struct {
	Room    string
	Message any
}

// NewHub creates a hub ready to Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage, 256),
	}
}

// Run drives the hub's single-goroutine event loop. Call it once, in a
// goroutine, at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case msg := <-h.broadcast:
			h.broadcastToRoom(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.rooms[client.InstanceID] == nil {
		h.rooms[client.InstanceID] = make(map[*Client]bool)
	}
	h.rooms[client.InstanceID][client] = true
	log.Info().Str("client", client.ID.String()).Str("room", client.InstanceID).Msg("viewer joined")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	if room, ok := h.rooms[client.InstanceID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.InstanceID)
		}
	}
}

func (h *Hub) broadcastToRoom(msg BroadcastMessage) {
	h.mu.RLock()
	room, ok := h.rooms[msg.Room]
	if !ok {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(room))
	for c := range room {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(msg.Message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal broadcast message")
		return
	}

	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
			h.unregister <- c
		}
	}
}

// Broadcast enqueues a message for every client in a room (an instance id,
// or GlobalRoom for feed subscribers).
func (h *Hub) Broadcast(room string, message any) {
	h.broadcast <- BroadcastMessage{Room: room, Message: message}
}

// Register admits a client into the hub.
func (h *Hub) Register(client *Client) { h.register <- client }

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomClientCount returns the number of clients watching one room.
func (h *Hub) RoomClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if r, ok := h.rooms[room]; ok {
		return len(r)
	}
	return 0
}
