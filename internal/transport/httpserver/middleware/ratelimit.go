package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-client limiter, used in front of the
// session endpoint.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowState
	max     int
	window  time.Duration
}

type windowState struct {
	start    time.Time
	requests int
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 30 * time.Second
	}
	return &RateLimiter{
		clients: make(map[string]*windowState),
		max:     max,
		window:  window,
	}
}

func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	state, ok := rl.clients[clientIP]
	if !ok || now.Sub(state.start) > rl.window {
		rl.clients[clientIP] = &windowState{start: now, requests: 1}
		rl.evictStale(now)
		return true
	}

	if state.requests >= rl.max {
		return false
	}
	state.requests++
	return true
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller holds the lock
func (rl *RateLimiter) evictStale(now time.Time) {
	if len(rl.clients) < 1024 {
		return
	}
	for ip, state := range rl.clients {
		if now.Sub(state.start) > rl.window {
			delete(rl.clients, ip)
		}
	}
}
