package http

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	logger  *zap.Logger
	now     func() time.Time
}

// NewRateLimiter returns nil when requestsPerSecond <= 0, which disables limiting.
func NewRateLimiter(requestsPerSecond, burst int, logger *zap.Logger) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = requestsPerSecond
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle is the fiber handler. Preflight requests are never limited.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}
	key := c.IP()
	if !rl.allow(key) {
		rl.logger.Warn("rate limit exceeded",
			zap.String("ip", key),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))
		return apperrors.NewRateLimited("too many requests")
	}
	return c.Next()
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	client, ok := rl.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = rl.now()
	rl.mu.Unlock()
	return client.limiter.Allow()
}

// Cleanup forgets clients idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	cutoff := rl.now().Add(-idle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	if rl == nil {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup(interval)
			case <-ctx.Done():
				return
			}
		}
	}()
}
