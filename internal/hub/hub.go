// Package hub pushes document patches to browsers over websockets.
package hub

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types sent to clients.
const (
	TypeSnapshot = "snapshot"
	TypePatch    = "patch"
)

const sendBuffer = 256

// Message is the websocket envelope.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// Hub fans messages out to every connected client.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*client
	snapshot func() any
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// New creates a Hub. snapshot is sent to each client right after it connects.
func New(snapshot func() any, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[string]*client),
		snapshot: snapshot,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws: upgrade failed", zap.Error(err))
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan Message, sendBuffer)}
	h.log.Info("ws: connect", zap.String("id", c.id), zap.String("from", r.RemoteAddr))

	// Register before taking the snapshot so no patch falls between the two.
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	if h.snapshot != nil {
		if err := conn.WriteJSON(Message{Type: TypeSnapshot, Data: h.snapshot()}); err != nil {
			h.log.Warn("ws: write error", zap.String("id", c.id), zap.Error(err))
			h.drop(c)
			_ = conn.Close()
			return
		}
	}

	go h.writer(c)
	go h.reader(c)
}

// Broadcast queues m for every client. Clients whose queue is full are dropped.
func (h *Hub) Broadcast(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- m:
		default:
			h.log.Warn("ws: client too slow, dropping", zap.String("id", id))
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()
	for _, c := range clients {
		close(c.send)
	}
}

func (h *Hub) writer(c *client) {
	defer c.conn.Close()
	for m := range c.send {
		if err := c.conn.WriteJSON(m); err != nil {
			h.log.Warn("ws: write error", zap.String("id", c.id), zap.Error(err))
			h.drop(c)
			// drain until drop closes the channel
			for range c.send {
			}
			return
		}
	}
}

// reader discards client input and notices disconnects.
func (h *Hub) reader(c *client) {
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			h.log.Info("ws: closed", zap.String("id", c.id))
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		close(c.send)
	}
}
