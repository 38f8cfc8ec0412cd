// Package ws fans out live pipeline events to WebSocket subscribers.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"motor_monitoring/internal/logger"
)

// Event types pushed to subscribers.
const (
	EventSensorUpdate          = "sensor_update"
	EventHealthUpdate          = "health_update"
	EventRecommendationsUpdate = "recommendations_update"
	EventConnectionLost        = "connection_lost"
	EventStatusUpdate          = "status_update"
	EventMaintenanceAlert      = "maintenance_alert"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB; clients only send control frames

	// sendBufSize is the per-client outgoing buffer depth. A client that
	// cannot drain it fast enough loses messages rather than stalling the
	// broadcaster: delivery is fire-and-forget.
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true }, // TODO: restrict origins for production
}

// Envelope is the JSON frame sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub manages subscriber connections and broadcasts events to all of them.
type Hub struct {
	log *logger.Logger

	// hello builds the initial events pushed to a client on connect, so a
	// fresh dashboard renders without waiting for the next cycle.
	hello func() []Envelope

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a hub. hello may be nil.
func New(log *logger.Logger, hello func() []Envelope) *Hub {
	return &Hub{
		log:     log,
		hello:   hello,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Broadcast serializes the event once and queues it to every client.
// Slow clients drop the frame; ordering between event types is not
// guaranteed and consumers must not assume it.
func (h *Hub) Broadcast(event string, data any) {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_marshal_failed", "event", event, "err", err)
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection and serves it until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already wrote the error response
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	if h.hello != nil {
		for _, ev := range h.hello() {
			if raw, err := json.Marshal(ev); err == nil {
				select {
				case c.send <- raw:
				default:
				}
			}
		}
	}

	go c.writePump()
	c.readPump() // blocks until the connection closes
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump drains incoming messages to process control frames and detect
// disconnects. Subscribers have nothing meaningful to say.
func (c *client) readPump() {
	defer func() { _ = c.conn.Close() }()

	c.conn.SetReadLimit(maxMsgSize)
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
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
