package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CounterStore counts hits per key within a fixed window. Implemented by
// the in-memory bucket store and the redis-backed store.
type CounterStore interface {
	// Incr bumps the counter for key and reports the count within the
	// current window plus the time until the window resets.
	Incr(c *gin.Context, key string, window time.Duration) (count int, retryAfter time.Duration, err error)
}

type RateLimiter struct {
	store  CounterStore
	window time.Duration
	limit  int
}

func NewRateLimiter(store CounterStore, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

// Middleware enforces the limit for a derived key.
func (rl *RateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		count, retryAfter, err := rl.store.Incr(c, key, rl.window)

		if err != nil {
			// fail open: a broken counter backend must not take login down
			c.Next()
			return
		}

		if count > rl.limit {
			secs := int(retryAfter.Seconds())

			if secs < 0 {
				secs = 0
			}

			c.Header("Retry-After", strconv.Itoa(secs))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many login attempts. Try again later.",
			})

			return
		}

		c.Next()
	}
}

// MemoryStore is the single-process counter backend.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: make(map[string]*clientBucket)}
}

func (s *MemoryStore) Incr(_ *gin.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.clients[key]

	if !ok || now.After(b.windowEnd) {
		s.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(window),
		}

		return 1, window, nil
	}

	b.count++

	return b.count, time.Until(b.windowEnd), nil
}

// helper functions

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available
func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin's ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	// Strip a port if one is present

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
