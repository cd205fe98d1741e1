package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ipLimiter is a sliding-window request counter per client IP. It protects
// the whole API surface; the per-account login throttle lives in the auth
// service and is separate.
type ipLimiter struct {
	requests int
	window   time.Duration

	mu      sync.Mutex
	clients map[string][]time.Time
}

func newIPLimiter(requests, windowSeconds int) *ipLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	l := &ipLimiter{
		requests: requests,
		window:   time.Duration(windowSeconds) * time.Second,
		clients:  make(map[string][]time.Time),
	}
	go l.cleanupLoop()
	return l
}

func (l *ipLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, stamps := range l.clients {
			if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) > l.window*2 {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

// allow reports whether the request fits the window, plus remaining count
// and the window reset time for the response headers.
func (l *ipLimiter) allow(ip string) (bool, int, time.Time) {
	now := time.Now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	stamps := l.clients[ip]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.requests {
		l.clients[ip] = kept
		return false, 0, kept[0].Add(l.window)
	}

	kept = append(kept, now)
	l.clients[ip] = kept
	return true, l.requests - len(kept), now.Add(l.window)
}

// RateLimit applies a per-IP sliding window across all routes.
func RateLimit(requests, windowSeconds int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(requests, windowSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, resetTime := limiter.allow(ClientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds())+1, 10))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the originating client IP, honoring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndexByte(ip, ':'); idx >= 0 {
		return ip[:idx]
	}
	return ip
}
