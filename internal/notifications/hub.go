package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"implantstock/internal/middleware"
)

const (
	maxConnsPerUser = 12
	maxTotalConns   = 10000
)

// Registration errors.
var (
	ErrServerConnLimit = errors.New("server connection limit reached")
	ErrUserConnLimit   = errors.New("user connection limit reached")
	ErrHubShutdown     = errors.New("hub is shutting down")
)

// Hub tracks the open alert sockets of this instance by owner.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint][]*Client
	total  int
	closed bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{byUser: make(map[uint][]*Client)}
}

// Name labels the hub in logs and metrics.
func (h *Hub) Name() string { return "stock hub" }

// Register adds a socket for userID.
func (h *Hub) Register(userID uint, conn Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case h.closed:
		return nil, ErrHubShutdown
	case h.total >= maxTotalConns:
		return nil, ErrServerConnLimit
	case len(h.byUser[userID]) >= maxConnsPerUser:
		return nil, ErrUserConnLimit
	}

	client := newClient(h, conn, userID)
	h.byUser[userID] = append(h.byUser[userID], client)
	h.total++
	return client, nil
}

// UnregisterClient removes client and closes its queue. Unknown or
// already removed clients are ignored.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.byUser[client.UserID]
	for i, c := range clients {
		if c != client {
			continue
		}
		clients = append(clients[:i], clients[i+1:]...)
		h.total--
		client.close()
		break
	}
	if len(clients) == 0 {
		delete(h.byUser, client.UserID)
	} else {
		h.byUser[client.UserID] = clients
	}
}

// Broadcast queues message on every socket of userID.
func (h *Hub) Broadcast(userID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.byUser[userID] {
		c.enqueue(message)
	}
}

// ConnectionCount returns the number of open sockets for userID.
func (h *Hub) ConnectionCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// StartWiring subscribes to the Redis stock channels and forwards each alert
// to the owner's sockets on this instance. It returns once the subscription
// is confirmed; forwarding continues on a goroutine until ctx ends.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartStockSubscriber(ctx, func(channel, payload string) {
		userID, ok := ParseStockChannel(channel)
		if !ok {
			middleware.Logger.Warn("invalid stock alert channel", slog.String("channel", channel))
			return
		}
		h.Broadcast(userID, []byte(payload))
	})
}

// Shutdown refuses new sockets and closes the queue of every open one; each
// write loop then sends a going-away close frame and drops its connection.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for _, clients := range h.byUser {
		for _, client := range clients {
			client.close()
		}
	}
	h.byUser = make(map[uint][]*Client)
	h.total = 0
	return nil
}
