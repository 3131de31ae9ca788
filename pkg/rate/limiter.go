package rate

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/code-payments/code-sdk-go/pkg/cache"
)

// Limiter limits operations based on a provided key
type Limiter interface {
	Allow(key string) bool
}

type localRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters cache.Cache[*rate.Limiter]
}

// NewLocalRateLimiter returns an in memory limiter allowing limit operations
// per second for each key. At most maxKeys keys are tracked, and the least
// recently used key's budget is reset once that's exceeded.
func NewLocalRateLimiter(limit rate.Limit, burst, maxKeys int) Limiter {
	if burst < 1 {
		burst = 1
	}

	return &localRateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.NewCache[*rate.Limiter](maxKeys),
	}
}

// Allow implements Limiter.Allow
func (l *localRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Retrieve(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Insert(key, limiter, 1)
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// NoLimiter never limits operations
type NoLimiter struct {
}

// Allow implements Limiter.Allow
func (n *NoLimiter) Allow(_ string) bool {
	return true
}
