package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*visitor
	mu       sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows n requests per interval seconds per IP.
func NewRateLimiter(n int, interval int) *RateLimiter {
	if n <= 0 {
		n = 1
	}
	if interval <= 0 {
		interval = 1
	}
	return &RateLimiter{
		limit:    rate.Every(time.Duration(interval) * time.Second / time.Duration(n)),
		burst:    n,
		limiters: make(map[string]*visitor),
	}
}

// NewStrictRateLimiter is for login/register: 5 attempts a minute per IP.
func NewStrictRateLimiter() *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(time.Minute / 5),
		burst:    5,
		limiters: make(map[string]*visitor),
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = v
	}
	v.lastSeen = now

	// buang visitor yang sudah lama tidak aktif
	for k, other := range rl.limiters {
		if now.Sub(other.lastSeen) > 10*time.Minute {
			delete(rl.limiters, k)
		}
	}
	return v.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			utils.InfoLogger.Printf("rate limited %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "too many requests, please slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
