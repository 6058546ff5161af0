package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	rateLimiterIdleTTL         = time.Hour
	rateLimiterCleanupInterval = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters  map[string]*rateLimiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	stopClean chan struct{}
	stopOnce  sync.Once
}

type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per IP with the given burst.
// A non-positive rps disables limiting. Call Stop to end the cleanup goroutine.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		limiters:  make(map[string]*rateLimiterEntry),
		rate:      rate.Limit(rps),
		burst:     burst,
		stopClean: make(chan struct{}),
	}
	if rl.Enabled() {
		go rl.startCleanup(rateLimiterCleanupInterval)
	}
	return rl
}

// Enabled reports whether requests are limited at all.
func (rl *RateLimiter) Enabled() bool {
	return rl.rate > 0
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	if !rl.Enabled() {
		return true
	}

	rl.mu.Lock()
	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// RetryAfter is the time until one more token is available.
func (rl *RateLimiter) RetryAfter() time.Duration {
	if !rl.Enabled() {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(rl.rate))
}

// Middleware rejects requests over the limit by calling onLimit, which must write the response.
func (rl *RateLimiter) Middleware(onLimit func(c *gin.Context, retryAfter time.Duration)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			onLimit(c, rl.RetryAfter())
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now().Add(-rateLimiterIdleTTL))
		case <-rl.stopClean:
			return
		}
	}
}

// cleanup drops limiters not used since threshold.
func (rl *RateLimiter) cleanup(threshold time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, ip)
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopClean) })
}
