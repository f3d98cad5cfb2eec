package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Add proper origin checking in production
		return true
	},
}

// SnapshotProvider supplies the initial state sent to a new viewer
// connection before any tick updates arrive.
type SnapshotProvider interface {
	GetSnapshot(instanceID string) (any, error)
}

// Handler upgrades HTTP connections to websockets and wires them into a Hub.
type Handler struct {
	hub      *Hub
	snapshot SnapshotProvider
}

// NewHandler creates a Handler serving viewers of hub's rooms.
func NewHandler(hub *Hub, snapshot SnapshotProvider) *Handler {
	return &Handler{hub: hub, snapshot: snapshot}
}

// ServeWS upgrades the request and registers the connection as a viewer of
// room (an instance id, or GlobalRoom for the activity feed).
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		ID:         uuid.New(),
		InstanceID: room,
		Conn:       conn,
		Send:       make(chan []byte, 256),
	}

	h.hub.Register(client)

	if h.snapshot != nil && room != GlobalRoom {
		if state, err := h.snapshot.GetSnapshot(room); err == nil {
			if data, err := json.Marshal(state); err == nil {
				client.Send <- data
			}
		}
	}

	go h.writePump(client)
	go h.readPump(client)
}

// readPump pumps messages from the websocket connection to the hub.
func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}
		h.handleMessage(c, message)
	}
}

// writePump pumps messages from the client's Send channel to the websocket
// connection, and pings on an interval.
func (h *Handler) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an inbound client message: ping/pong keepalive,
// and subscribe to move a viewer to a different room.
func (h *Handler) handleMessage(c *Client, message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Msg("failed to parse client message")
		return
	}

	switch msg.Type {
	case "ping":
		response, _ := json.Marshal(map[string]string{"type": "pong"})
		c.Send <- response

	case "subscribe":
		if msg.Room != "" && msg.Room != c.InstanceID {
			h.hub.Unregister(c)
			c.InstanceID = msg.Room
			c.Send = make(chan []byte, 256)
			h.hub.Register(c)
		}

	default:
		log.Warn().Str("type", msg.Type).Msg("unknown client message type")
	}
}

// ClientMessage is an inbound message from a websocket client.
type ClientMessage struct {
	Type string          `json:"type"`
	Room string          `json:"room,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}
