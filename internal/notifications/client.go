package notifications

import (
	"log/slog"
	"sync"
	"time"

	"implantstock/internal/middleware"
	"implantstock/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Alert sockets are server-push only; inbound frames are pings and closes.
	maxMessageSize = 1024

	sendBuffer = 64
)

var goingAway = websocket.FormatCloseMessage(websocket.CloseGoingAway, "")

// Conn is the part of *websocket.Conn a Client drives.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one alert socket of one user.
type Client struct {
	hub    *Hub
	conn   Conn
	UserID uint

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(hub *Hub, conn Conn, userID uint) *Client {
	return &Client{hub: hub, conn: conn, UserID: userID, send: make(chan []byte, sendBuffer)}
}

// Outbound exposes the queue the write loop drains. It is closed when the
// client leaves the hub.
func (c *Client) Outbound() <-chan []byte {
	return c.send
}

// enqueue queues message without blocking. Messages for a closed client
// or beyond the buffer are dropped and counted.
func (c *Client) enqueue(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		observability.WebSocketBackpressureDrops.WithLabelValues(c.hub.Name(), "closed").Inc()
		return
	}
	select {
	case c.send <- message:
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues(c.hub.Name(), "full").Inc()
		middleware.Logger.Warn("stock socket buffer full, dropped alert",
			slog.Uint64("user_id", uint64(c.UserID)))
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Serve runs the socket until the peer leaves or the hub shuts down. It
// blocks; the write loop runs on its own goroutine.
func (c *Client) Serve() {
	go c.writeLoop()
	defer func() {
		c.hub.UnregisterClient(c)
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
				middleware.Logger.Debug("stock socket read failed",
					slog.Uint64("user_id", uint64(c.UserID)),
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()

	for {
		var (
			kind    int
			payload []byte
		)
		select {
		case message, ok := <-c.send:
			if !ok {
				kind, payload = websocket.CloseMessage, goingAway
			} else {
				kind, payload = websocket.TextMessage, message
			}
		case <-ping.C:
			kind = websocket.PingMessage
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, payload); err != nil || kind == websocket.CloseMessage {
			return
		}
	}
}
