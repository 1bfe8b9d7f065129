package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/platformbuilds/mirador-console/internal/config"
	"github.com/platformbuilds/mirador-console/internal/metrics"
)

// idleLimiterTTL is how long an unused client limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client (user ID, or client IP for
// anonymous requests) with a token bucket. Limits can be changed at runtime.
type RateLimiter struct {
	mu      sync.Mutex
	cfg     config.RateLimitConfig
	clients map[string]*clientLimiter
	now     func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg, clients: make(map[string]*clientLimiter), now: time.Now}
}

// Update applies new limits. Existing client buckets are rebuilt lazily.
func (rl *RateLimiter) Update(cfg config.RateLimitConfig) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cfg = cfg
	rl.clients = make(map[string]*clientLimiter)
}

func (rl *RateLimiter) allow(key string) (bool, config.RateLimitConfig) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cfg := rl.cfg
	if !cfg.Enabled {
		return true, cfg
	}

	now := rl.now()
	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	for k, other := range rl.clients {
		if now.Sub(other.lastSeen) > idleLimiterTTL {
			delete(rl.clients, k)
		}
	}

	return cl.limiter.AllowN(now, 1), cfg
}

// Handler returns the gin middleware.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(ContextUserID)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		ok, cfg := rl.allow(key)
		if !ok {
			metrics.RateLimitedTotal.WithLabelValues(c.FullPath()).Inc()
			c.Header("X-Rate-Limit-Limit", strconv.FormatFloat(cfg.RPS, 'f', -1, 64))
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error":  "Rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
