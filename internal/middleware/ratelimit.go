package middleware

import (
	"sync"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = 10 * time.Minute
)

// RateLimit throttles each client IP with its own token bucket. Buckets of
// idle clients are forgotten. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	var mu sync.Mutex
	limiters := expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL)

	getLimiter := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, exists := limiters.Get(ip)
		if !exists {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
		limiters.Add(ip, limiter)
		return limiter
	}

	return func(c *fiber.Ctx) error {
		if !getLimiter(c.IP()).Allow() {
			return types.NewCustomError(fiber.StatusTooManyRequests, "Too many requests", "ratelimit")
		}
		return c.Next()
	}
}
