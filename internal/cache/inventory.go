package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix             = "user:%d"
	InventoryChoicesKeyPrefix = "inventory:%d:choices"
	RevokedSessionKeyPrefix   = "blacklist:%s"
)

const (
	UserTTL             = 5 * time.Minute
	InventoryChoicesTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// InventoryChoicesKey holds the distinct sizes and brands of one owner.
func InventoryChoicesKey(ownerID uint) string {
	return fmt.Sprintf(InventoryChoicesKeyPrefix, ownerID)
}

// RevokedSessionKey marks a session token ID as logged out.
func RevokedSessionKey(jti string) string {
	return fmt.Sprintf(RevokedSessionKeyPrefix, jti)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID), InventoryChoicesKey(userID))
}

func InvalidateInventory(ctx context.Context, ownerID uint) {
	Invalidate(ctx, InventoryChoicesKey(ownerID))
}

// RevokeSession records jti as revoked until the token would have expired anyway.
func RevokeSession(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, RevokedSessionKey(jti), "1", ttl).Err()
}

// IsSessionRevoked reports whether jti was revoked. Without Redis nothing is revoked.
func IsSessionRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil || jti == "" {
		return false, nil
	}
	n, err := client.Exists(ctx, RevokedSessionKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
