// Package websocket streams generation-progress events out to browser
// clients (SPEC_FULL.md §9's WS /api/v1/systems/:id/ws). The Hub holds no
// event-bus subscription of its own: cmd/server subscribes to the generation
// service's progress topic and hands each event to Hub.Broadcast, and the Hub
// republishes it to whichever connected clients are watching that system's
// topic.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/darkdragonsastro/draco-simulator/internal/genlog"
	"github.com/gorilla/websocket"
)

var log = genlog.New("websocket", genlog.Info)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one event delivered to a client.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// topicMessage is an internally-routed message tagged with the topic it
// belongs to; Hub.Run only forwards it to clients subscribed to that exact
// topic (or to no topic at all, for connection-wide announcements).
type topicMessage struct {
	topic   string
	payload []byte
}

// Client represents a single WebSocket connection, scoped to one topic
// (one generating system).
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	id    string
	topic string
}

// Hub manages WebSocket connections and routes topic-scoped broadcasts to
// the clients subscribed to each topic.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan topicMessage
	register   chan *Client
	unregister chan *Client
	nextID     int
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan topicMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Tracef("client connected: %s (topic %s)", client.id, client.topic)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Tracef("client disconnected: %s", client.id)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if client.topic != "" && client.topic != msg.topic {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to every client subscribed to topic.
func (h *Hub) Broadcast(topic, msgType string, data any) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("failed to marshal message: %v", err)
		return
	}

	select {
	case h.broadcast <- topicMessage{topic: topic, payload: bytes}:
	default:
		log.Warnf("broadcast channel full, dropping message for topic %s", topic)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and registers the resulting client
// against topic (the system id it should watch progress events for).
func (h *Hub) HandleWebSocket(topic string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.nextID++
	clientID := string(rune('A'+h.nextID%26)) + "-" + time.Now().Format("150405")
	h.mu.Unlock()

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		id:    clientID,
		topic: topic,
	}

	h.register <- client

	welcome := Message{
		Type:      "connection.established",
		Timestamp: time.Now().UTC(),
		Data:      map[string]any{"client_id": clientID, "topic": topic},
	}
	if bytes, err := json.Marshal(welcome); err == nil {
		client.send <- bytes
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("read error: %v", err)
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Event names carried on progress broadcasts (spec.md §6's phase
// narration, reused as SPEC_FULL.md §9's WS event vocabulary).
const (
	EventGenerationStars    = "generation.stars"
	EventGenerationOrbitals = "generation.orbitals"
	EventGenerationComplete = "generation.complete"
	EventGenerationFailed   = "generation.failed"
)
