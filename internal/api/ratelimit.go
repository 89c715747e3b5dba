package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-client-IP token bucket. Stale entries are swept
// on each pass so the map does not grow without bound.
type RateLimiter struct {
	every rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*ipLimiter
}

func NewRateLimiter(interval time.Duration, burst int) *RateLimiter {
	return &RateLimiter{
		every:   rate.Every(interval),
		burst:   burst,
		clients: make(map[string]*ipLimiter),
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rl.allow(ip) {
			JSONError(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[ip]
	if !ok {
		client = &ipLimiter{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()

	for addr, c := range rl.clients {
		if time.Since(c.lastSeen) > 30*time.Minute {
			delete(rl.clients, addr)
		}
	}

	return client.limiter.Allow()
}
