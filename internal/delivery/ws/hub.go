// Package ws holds the live notification hub. Each user keeps at most one
// websocket connection; a new connection replaces the previous one. The hub
// implements domain.NotificationBroadcaster.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"farmtrack/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub tracks live websocket connections keyed by user ID.
type Hub struct {
	logger   *slog.Logger
	verifier domain.TokenVerifier
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*client
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewHub creates a Hub that authenticates connections with the given verifier.
func NewHub(logger *slog.Logger, verifier domain.TokenVerifier) *Hub {
	return &Hub{
		logger:   logger,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin checks are handled by the CORS layer; mobile
			// clients send no Origin header at all.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*client),
	}
}

// ServeHTTP upgrades GET /ws requests. The token is passed as a query
// parameter because websocket clients cannot set an Authorization header
// portably.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	h.register(c)

	go c.writePump()
	go func() {
		c.readPump()
		h.unregister(c)
	}()
}

// Push implements domain.NotificationBroadcaster. It never blocks: when the
// user has no connection or their buffer is full, the message is dropped (the
// database row remains the durable copy).
func (h *Hub) Push(userID string, n *domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("failed to encode notification", "err", err)
		return
	}

	h.mu.Lock()
	c, ok := h.conns[userID]
	h.mu.Unlock()
	if !ok {
		return
	}

	select {
	case c.send <- payload:
	default:
		h.logger.Warn("dropping notification for slow websocket consumer", "user_id", userID)
	}
}

// ConnectedUsers returns the number of users with a live connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close terminates all live connections. Called on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*client, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	old, ok := h.conns[c.userID]
	h.conns[c.userID] = c
	h.mu.Unlock()

	if ok {
		h.logger.Info("replacing existing websocket connection", "user_id", c.userID)
		old.close()
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if current, ok := h.conns[c.userID]; ok && current == c {
		delete(h.conns, c.userID)
	}
	h.mu.Unlock()
	c.close()
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump consumes (and discards) client frames to keep pong handling alive.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
