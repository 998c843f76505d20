package service

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/nskv/internal/core/domain"
	"github.com/yndnr/nskv/pkg/cmap"
)

// DefaultLimiterIdle is how long an identity's limiter is kept after its
// last command.
const DefaultLimiterIdle = 5 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// RateLimiterRegistry manages one token-bucket limiter per identity.
// A registry created with a non-positive rate allows everything.
type RateLimiterRegistry struct {
	perSecond int
	limiters  *cmap.Map[*limiterEntry]
	now       func() time.Time
}

// NewRateLimiterRegistry creates a registry granting perSecond commands per
// second to each identity, with a burst of the same size.
func NewRateLimiterRegistry(perSecond int) *RateLimiterRegistry {
	return &RateLimiterRegistry{
		perSecond: perSecond,
		limiters:  cmap.New[*limiterEntry](),
		now:       time.Now,
	}
}

// Enabled reports whether the registry limits anything.
func (r *RateLimiterRegistry) Enabled() bool {
	return r != nil && r.perSecond > 0
}

// Allow reports whether id may issue one more command now.
func (r *RateLimiterRegistry) Allow(id domain.Identity) bool {
	if !r.Enabled() {
		return true
	}
	e, _ := r.limiters.GetOrCreate(id.String(), func() *limiterEntry {
		return &limiterEntry{limiter: rate.NewLimiter(rate.Limit(r.perSecond), r.perSecond)}
	})
	e.lastSeen.Store(r.now().UnixNano())
	return e.limiter.Allow()
}

// Prune drops limiters unused for at least idle and returns how many were
// dropped. idle is raised to one second, the time a bucket needs to refill,
// so a dropped limiter is indistinguishable from a full one.
func (r *RateLimiterRegistry) Prune(idle time.Duration) int {
	if !r.Enabled() {
		return 0
	}
	if idle < time.Second {
		idle = time.Second
	}
	cutoff := r.now().Add(-idle).UnixNano()

	var stale []string
	r.limiters.Range(func(key string, e *limiterEntry) bool {
		if e.lastSeen.Load() <= cutoff {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		r.limiters.Delete(key)
	}
	return len(stale)
}

// RunJanitor prunes idle limiters every interval until ctx is done.
func (r *RateLimiterRegistry) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	if !r.Enabled() || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(idle)
		}
	}
}

// Len returns the number of tracked identities.
func (r *RateLimiterRegistry) Len() int {
	if r == nil {
		return 0
	}
	return r.limiters.Count()
}
