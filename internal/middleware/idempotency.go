package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:"

// RequestID tags every request with an id for log correlation, generating a
// ULID when the client did not send one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		c.Locals("requestID", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// Idempotency replays the cached response for a repeated X-Correlation-ID on
// a mutating request within the TTL. Requests without a correlation id pass
// through untouched.
func Idempotency(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPatch, fiber.MethodPut, fiber.MethodDelete:
		default:
			return c.Next()
		}

		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			return c.Next()
		}

		key := idempotencyKeyPrefix + correlationID
		ctx := context.Background()

		cached, err := redisClient.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			c.Set("X-Idempotent-Replay", "true")
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Only successful responses are replayable; errors should retry.
		statusCode := c.Response().StatusCode()
		if statusCode >= 200 && statusCode < 300 {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			if len(body) > 0 {
				go func() {
					bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					redisClient.Set(bgCtx, key, body, ttl)
				}()
			}
		}

		return nil
	}
}
