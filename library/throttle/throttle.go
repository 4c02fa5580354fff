// Package throttle limits how fast searches leave the process.
package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"golang.org/x/time/rate"
)

// SearchThrottleCfg configuration for SearchThrottle
type SearchThrottleCfg struct {
	TotalNPerSec, TotalBurst             float64
	EachSessionNPerSec, EachSessionBurst float64
	// IdleTTL drops per-session buckets not used for this long.
	IdleTTL time.Duration
}

type sessionBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SearchThrottle is one process-wide token bucket plus one bucket per session.
type SearchThrottle struct {
	mu       sync.Mutex
	cfg      SearchThrottleCfg
	total    *rate.Limiter
	sessions map[string]*sessionBucket
	now      func() time.Time
}

// NewSearchThrottle create new SearchThrottle
func NewSearchThrottle(cfg SearchThrottleCfg) (*SearchThrottle, error) {
	if cfg.TotalNPerSec <= 0 || cfg.EachSessionNPerSec <= 0 {
		return nil, errors.New("NPerSec must bigger than 0")
	}
	if cfg.TotalBurst < 1 || cfg.EachSessionBurst < 1 {
		return nil, errors.New("burst must be at least 1")
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}

	return &SearchThrottle{
		cfg:      cfg,
		total:    rate.NewLimiter(rate.Limit(cfg.TotalNPerSec), int(cfg.TotalBurst)),
		sessions: make(map[string]*sessionBucket),
		now:      time.Now,
	}, nil
}

// Allow reports whether sessionID may issue a search now.
// A nil throttle allows everything.
func (t *SearchThrottle) Allow(sessionID string) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	bucket, ok := t.sessions[sessionID]
	if !ok {
		bucket = &sessionBucket{
			limiter: rate.NewLimiter(rate.Limit(t.cfg.EachSessionNPerSec), int(t.cfg.EachSessionBurst)),
		}
		t.sessions[sessionID] = bucket
	}
	bucket.lastSeen = now

	// check the session first so a chatty session does not drain the shared bucket
	if !bucket.limiter.AllowN(now, 1) {
		return false
	}
	return t.total.AllowN(now, 1)
}

// Sweep drops buckets idle for longer than IdleTTL and returns how many were removed.
func (t *SearchThrottle) Sweep() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	deadline := t.now().Add(-t.cfg.IdleTTL)
	for id, bucket := range t.sessions {
		if bucket.lastSeen.Before(deadline) {
			delete(t.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (t *SearchThrottle) RunSweeper(ctx context.Context, interval time.Duration) {
	if t == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
