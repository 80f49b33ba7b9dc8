package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/raynet-care/care-api/pkg/httputil"
)

const (
	cleanupInterval = time.Minute
	clientTTL       = 3 * time.Minute
)

// RateLimiterConfig configures the per-client token bucket.
type RateLimiterConfig struct {
	RPS   float64
	Burst int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token-bucket limit per client IP. Idle clients
// are evicted so the map does not grow without bound under IP churn.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	config  RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		config:  config,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		rl.evictStale(time.Now().Add(-clientTTL))
	}
}

// evictStale drops clients not seen since the cutoff.
func (rl *RateLimiter) evictStale(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Error: &httputil.Error{
					Code:    http.StatusTooManyRequests,
					Message: "rate limit exceeded",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
