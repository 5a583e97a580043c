package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter spaces requests to each host.
//
// Two mechanisms cooperate:
//   - a per-host token bucket meters request starts, so a pool of
//     workers cannot stampede a host that has not answered yet
//   - a completion floor, refreshed by Record, keeps the next request
//     from starting sooner than one interval after the previous one
//     finished
//
// The interval is measured from request completion, not request start,
// so slow responses never shrink the quiet time a host gets.
type HostLimiter struct {
	// interval is the minimum quiet time per host. Zero disables the
	// limiter entirely.
	interval time.Duration

	// mu protects limiters and next.
	mu sync.Mutex

	// limiters holds one token bucket per host.
	limiters map[string]*rate.Limiter

	// next maps each host to the earliest time its next request may start.
	next map[string]time.Time
}

// NewHostLimiter creates a limiter enforcing the given per-host interval.
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
		next:     make(map[string]time.Time),
	}
}

// Interval returns the configured per-host interval.
func (l *HostLimiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until a request to host may start, or until the context
// is cancelled.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return nil
	}

	if err := l.limiterFor(host).Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	readyAt := l.next[host]
	l.mu.Unlock()

	if wait := time.Until(readyAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// Record notes that a request to host just completed. The next request
// to the same host may start no sooner than one interval from now.
func (l *HostLimiter) Record(host string) {
	if l.interval <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.next[host] = time.Now().Add(l.interval)
}

// limiterFor returns the token bucket for host, creating it on first use.
func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[host] = lim
	}
	return lim
}
