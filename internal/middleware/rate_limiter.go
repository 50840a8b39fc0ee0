package middleware

import (
	"net/http"
	"sync"
	"time"

	"betteredible/internal/apierror"

	"github.com/gin-gonic/gin"
)

// ipWindow tracks request counts for one client IP within a fixed window.
type ipWindow struct {
	count int
	until time.Time
}

// ipLimiter is a fixed-window per-IP rate limiter. Each instance owns its own
// counters, so the login limiter and the general API limiter never interfere.
type ipLimiter struct {
	mu      sync.Mutex
	windows map[string]*ipWindow
	limit   int
	window  time.Duration
	message string
}

func newIPLimiter(limit int, window time.Duration, message string) *ipLimiter {
	l := &ipLimiter{
		windows: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
		message: message,
	}
	go l.purge()
	return l
}

// allow counts a request for ip and reports whether it is within the limit.
func (l *ipLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.until) {
		w = &ipWindow{until: now.Add(l.window)}
		l.windows[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.until
}

// purge drops expired windows so IPs that never return don't accumulate.
func (l *ipLimiter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, w := range l.windows {
			if now.After(w.until) {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *ipLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, until := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter caps credential guessing at 20 attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newIPLimiter(20, time.Minute, "Too many login attempts. Try again in a minute.").handler()
}

// RateLimiter caps a route group at limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newIPLimiter(limit, window, "Too many requests. Try again shortly.").handler()
}
