package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"salesanalytics/internal/metrics"
	"salesanalytics/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	DefaultSendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins; CORS is enforced on the REST routes
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a single subscriber. conn is nil for in-process subscribers.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to subscribers from a single goroutine. A subscriber
// whose queue is full is disconnected rather than allowed to stall producers.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	sendBuffer int
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewHub(sendBuffer int, logger *slog.Logger, m *metrics.Metrics) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "websocket"),
		metrics:    m,
	}
}

// Run dispatches hub events until ctx is cancelled, then closes every
// subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.remove(client, false)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			h.metrics.SubscriberAdded()
			h.logger.Debug("subscriber attached", "subscribers", len(h.clients))
		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client, false)
				h.logger.Debug("subscriber detached", "subscribers", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.remove(client, true)
					h.logger.Warn("subscriber queue overflow, disconnecting", "buffer", h.sendBuffer)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client, overflow bool) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.SubscriberRemoved(overflow)
}

// Publish encodes msg and hands it to the dispatch loop. Messages published
// after the hub stopped are dropped.
func (h *Hub) Publish(msg model.WebSocketMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", "type", msg.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// attach registers a subscriber whose queue already holds greeting, if any.
// It returns nil once the hub has stopped.
func (h *Hub) attach(conn *websocket.Conn, greeting []byte) *Client {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, h.sendBuffer)}
	if greeting != nil {
		client.send <- greeting
	}
	select {
	case h.register <- client:
		return client
	case <-h.done:
		return nil
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// writePump writes queued messages to the connection, one frame each.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; subscribers never send data.
func (c *Client) readPump() {
	defer func() {
		c.hub.detach(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Info("subscriber connection closed", "error", err)
			}
			return
		}
	}
}

// ServeWs upgrades the request and attaches the connection as a subscriber.
func (h *Hub) ServeWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	greeting, _ := json.Marshal(model.WebSocketMessage{
		Type: model.MessageConnected,
		Data: "WebSocket connection established",
	})
	client := h.attach(conn, greeting)
	if client == nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
