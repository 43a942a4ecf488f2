package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/scribehq/scribe-api/internal/api/shared"
)

// TooManyAttemptsMessage is the body of every 429 response.
const TooManyAttemptsMessage = "Too many login attempts. Please try again later."

// RateLimiter applies a fixed-window request limit per client IP. It is meant
// for low-cardinality hot spots like the login endpoint; counters live in
// memory and reset when the window rolls over.
type RateLimiter struct {
	limit  int
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	windows map[string]*rateWindow

	// timeFunc is swappable for tests.
	timeFunc func() time.Time
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window for
// each client IP. A limit of 0 disables limiting.
func NewRateLimiter(limit int, window time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		logger:   logger.With(slog.String("component", "rate_limiter")),
		windows:  make(map[string]*rateWindow),
		timeFunc: time.Now,
	}
}

// Limit wraps next with the rate limit check. Requests over the limit get
// 429 with a Retry-After header and are never passed through.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		if !l.allow(ip) {
			l.logger.Warn("rate limit exceeded",
				"ip", ip,
				"path", r.URL.Path)
			w.Header().Set("Retry-After", l.window.String())
			shared.RespondWithMessage(w, r, http.StatusTooManyRequests, TooManyAttemptsMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts one request against ip's current window and reports whether it
// fits under the limit. Stale windows are dropped opportunistically to keep
// the map from growing without bound.
func (l *RateLimiter) allow(ip string) bool {
	now := l.timeFunc()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, win := range l.windows {
		if now.Sub(win.start) >= l.window {
			delete(l.windows, key)
		}
	}

	win, ok := l.windows[ip]
	if !ok {
		l.windows[ip] = &rateWindow{start: now, count: 1}
		return true
	}

	win.count++
	return win.count <= l.limit
}

// clientIP returns the remote address without the port. RealIP middleware
// upstream already resolves proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
