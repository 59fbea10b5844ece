package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/services"
)

// loginLimiter counts failed logins per client and account inside a sliding window.
type loginLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	failures map[string][]time.Time
}

func newLoginLimiter(limit int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

func (limiter *loginLimiter) blocked(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return len(limiter.pruneLocked(key, now)) >= limiter.limit
}

func (limiter *loginLimiter) recordFailure(key string, now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.failures[key] = append(limiter.pruneLocked(key, now), now)
}

func (limiter *loginLimiter) reset(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.failures, key)
}

func (limiter *loginLimiter) pruneLocked(key string, now time.Time) []time.Time {
	values := limiter.failures[key]
	if len(values) == 0 {
		return nil
	}

	threshold := now.Add(-limiter.window)
	kept := values[:0]
	for _, value := range values {
		if value.After(threshold) {
			kept = append(kept, value)
		}
	}

	if len(kept) == 0 {
		delete(limiter.failures, key)
		return nil
	}
	limiter.failures[key] = kept
	return kept
}

func loginLimiterKey(c *fiber.Ctx, emailRaw string) string {
	ip := strings.TrimSpace(c.IP())
	if ip == "" {
		ip = "unknown"
	}
	return ip + "|" + services.NormalizeAuthEmail(emailRaw)
}
