// Package notifications fans low-stock alerts out to the owner's open WebSockets.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"implantstock/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const stockChannelPrefix = "inventory:user:"

// Notifier provides helpers to publish stock alerts into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// StockChannel derives the Redis channel name for an owner's stock alerts.
func StockChannel(userID uint) string {
	return stockChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// ParseStockChannel returns the owner id encoded in a stock channel name.
func ParseStockChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, stockChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// PublishStockAlert sends an alert to the owner's channel. Without Redis it is a no-op.
func (n *Notifier) PublishStockAlert(ctx context.Context, userID uint, alert StockAlert) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal stock alert: %w", err)
	}
	return n.rdb.Publish(ctx, StockChannel(userID), payload).Err()
}

// StartStockSubscriber subscribes to `inventory:user:*` and calls onMessage for
// each incoming message until ctx is cancelled.
func (n *Notifier) StartStockSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, stockChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe to stock alerts: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in stock subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
