package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"freeskill/internal/apperror"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter controls how frequently a caller may perform an action.
type RateLimiter interface {
	Allow(key string) bool
}

// keyedRateLimiter tracks request rates per key (a user ID or an IP address) with expiration.
type keyedRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewRateLimiter constructs a per-key rate limiter that allows up to `requests` events per `window`.
// The whole allowance may be spent at once. Idle keys are forgotten after the window.
func NewRateLimiter(requests int, window time.Duration) RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}

	return &keyedRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		ttl:      window,
		now:      time.Now,
	}
}

func (l *keyedRateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := l.now()

	l.mu.Lock()
	v := l.visitorLocked(key, now)
	l.gcLocked(now)
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

func (l *keyedRateLimiter) visitorLocked(key string, now time.Time) *visitor {
	if v, ok := l.visitors[key]; ok {
		v.lastSeen = now
		return v
	}

	v := &visitor{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
	l.visitors[key] = v
	return v
}

func (l *keyedRateLimiter) gcLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
		}
	}
}

// RateLimit rejects callers exceeding limiter with 429. Authenticated callers are
// keyed by user ID, others by IP.
func RateLimit(limiter RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if user := CurrentUser(c); user != nil {
			key = "user:" + user.ID
		}
		if !limiter.Allow(key) {
			return apperror.TooManyRequests("Too many requests, please try again later.")
		}
		return c.Next()
	}
}
