package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// InitRedis connects the rate limiter backend. When Redis is unreachable
// the limiter stays disabled and requests pass through.
func InitRedis(redisURL string) error {
	if redisURL == "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: "localhost:6379",
		})
	} else {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opt)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// RateLimitMiddleware caps a client IP at limit requests per minute using a
// fixed window in Redis. Used on the public contact endpoint to keep the
// store-and-forward mailbox from being flooded.
func RateLimitMiddleware(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			// Redis not initialized, skip the check
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.IP())
		ctx := context.Background()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis error, skip the check
			return c.Next()
		}

		if count == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}

		if count > limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}

		return c.Next()
	}
}
