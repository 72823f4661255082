package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-kasir-api/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RateLimiter is satisfied by *cache.Client.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles a route per client IP with fixed windows. A nil limiter
// disables it; limiter failures let the request through.
func RateLimit(name string, limiter RateLimiter, limit int64, window time.Duration, log zerolog.Logger) fiber.Handler {
	if limiter == nil || limit <= 0 || window <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		scope := fmt.Sprintf("%s:%s", name, c.IP())
		allowed, count, err := limiter.FixedWindowAllow(c.UserContext(), scope, limit, window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
			return c.Next()
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return apperror.New(apperror.CodeRateLimit, "too many requests, try again later")
		}
		return c.Next()
	}
}
