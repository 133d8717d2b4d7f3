package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP. Buckets of clients that
// went quiet are dropped by Prune, so the map stays bounded by recent
// visitors.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rateLimit rate.Limit
	burstRate int
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{visitors: make(map[string]*visitor), rateLimit: r, burstRate: b, now: time.Now}
}

// NewStatusPageLimiter is the limiter the status routes run behind.
func NewStatusPageLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	v, exists := i.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.visitors[ip] = v
	}
	v.lastSeen = i.now()
	return v.limiter
}

// Prune drops buckets not used for idle and returns how many went.
func (i *IPRateLimiter) Prune(idle time.Duration) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	cutoff := i.now().Add(-idle)
	removed := 0
	for ip, v := range i.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(i.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunPruner prunes every interval until ctx is done.
func (i *IPRateLimiter) RunPruner(ctx context.Context, interval time.Duration, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.Prune(idle)
		}
	}
}

func (i *IPRateLimiter) Visitors() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.visitors)
}
