package nlp

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the maximum number of model-backed
	// classification calls allowed per user per minute when no explicit
	// limit is configured.
	DefaultRateLimit = 20

	// defaultRateWindow is the sliding window duration.
	defaultRateWindow = time.Minute
)

// RateLimiter enforces a per-user sliding-window limit on model calls so
// one student cannot burn the whole token budget.
//
// It stores the call timestamps for each user within the current window
// and prunes stale entries on every Allow call, keeping memory bounded to
// O(limit) per active user. Safe for concurrent use.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  map[string][]time.Time // userID → call timestamps in window
}

// NewRateLimiter returns a RateLimiter permitting at most limit calls per
// user within window. Non-positive arguments fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	return &RateLimiter{
		limit:  limit,
		window: window,
		calls:  make(map[string][]time.Time),
	}
}

// Allow records an attempt and reports whether the user may make another
// model call. False means the quota for the current window is exhausted.
func (r *RateLimiter) Allow(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	existing := r.calls[userID]
	valid := existing[:0] // reuse backing array
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= r.limit {
		r.calls[userID] = valid
		return false
	}

	r.calls[userID] = append(valid, now)
	return true
}

// Remaining returns how many calls the user can still make within the
// current window.
func (r *RateLimiter) Remaining(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.window)
	count := 0
	for _, t := range r.calls[userID] {
		if t.After(cutoff) {
			count++
		}
	}
	if rem := r.limit - count; rem > 0 {
		return rem
	}
	return 0
}
