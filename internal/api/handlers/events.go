package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niveshquant/quantfolio/pkg/logger"
)

const (
	// pingInterval keeps idle connections alive through proxies.
	pingInterval = 30 * time.Second

	// writeWait bounds a single frame write to a slow client.
	writeWait = 10 * time.Second
)

// Event is one message pushed to websocket subscribers.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub fans pipeline events out to websocket subscribers. Subscribers
// are listen-only; inbound frames are read and discarded.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHub creates a hub and starts its keepalive loop.
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
	}

	h.wg.Add(1)
	go h.pingLoop()

	return h
}

// Serve upgrades the request and holds the connection until the client
// goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	h.logger.WithField("remote", conn.RemoteAddr().String()).Debug("WebSocket client connected")

	// Reading surfaces the close frame; payloads are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends one event to every connected client. Connections that
// fail the write are dropped.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			h.logger.WithError(err).Debug("Dropping websocket client")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops the keepalive loop and closes every connection.
func (h *Hub) Close() {
	close(h.stopCh)

	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}

// pingLoop pings every client on an interval so half-dead connections
// get noticed and reaped between broadcasts.
func (h *Hub) pingLoop() {
	defer h.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		case <-h.stopCh:
			return
		}
	}
}
