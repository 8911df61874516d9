package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy says what a limiter does when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

var errNoRateLimitStore = errors.New("rate limit store unavailable")

// RateLimitKey is the Redis counter key for a resource and caller.
func RateLimitKey(resource, id string) string {
	return "rl:" + resource + ":" + id
}

// rateLimitsEnforced is false for development and test runs, including an
// unset APP_ENV, so local form testing never locks anyone out.
func rateLimitsEnforced() bool {
	switch os.Getenv("APP_ENV") {
	case "", "development", "test":
		return false
	}
	return true
}

// CheckRateLimit counts one hit against resource for id in a fixed window
// and reports whether the caller is still within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if !rateLimitsEnforced() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoRateLimitStore
	}

	key := RateLimitKey(resource, id)
	var (
		hits *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		hits = p.Incr(ctx, key)
		ttl = p.TTL(ctx, key)
		return nil
	}); err != nil {
		return false, err
	}

	// A counter without an expiry would never reset; start the window.
	if ttl.Val() < 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return hits.Val() <= int64(limit), nil
}

// RateLimit limits requests per caller and fails open. name overrides the
// resource, which defaults to the request path.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit FailPolicy. Callers are
// keyed by session user once known, by client IP otherwise.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}
		id := "ip:" + c.IP()
		if uid, ok := c.Locals("userID").(uint); ok {
			id = fmt.Sprintf("user:%d", uid)
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		switch {
		case err != nil && policy == FailClosed:
			Logger.WarnContext(c.UserContext(), "rate limit store unavailable, rejecting request",
				slog.String("resource", resource),
				slog.String("error", err.Error()))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "rate limit unavailable"})
		case err != nil:
			return c.Next()
		case !allowed:
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
