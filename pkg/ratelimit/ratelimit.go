// Package ratelimit bounds outbound request volume per partner using two
// rolling windows: requests in the last minute and requests in the last
// hour. A rejected request is never recorded, so rejections do not count
// against the budget.
package ratelimit

import (
	"sync"
	"time"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// Limits holds the per-partner window thresholds.
type Limits struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// window holds the recorded request timestamps for one partner. Every
// timestamp in the minute slice is logically within the hour slice too;
// both are pruned on every check.
type window struct {
	minute []time.Time
	hour   []time.Time
}

// Limiter tracks rolling request windows for all partners. It is safe
// for concurrent use; the prune-then-append sequence for a partner runs
// under the limiter's mutex.
type Limiter struct {
	mu      sync.Mutex
	limits  map[types.Partner]Limits
	windows map[types.Partner]*window

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewLimiter creates a Limiter for the given per-partner thresholds.
// Window state is created lazily on first use of a partner and lives for
// the limiter's lifetime.
func NewLimiter(limits map[types.Partner]Limits) *Limiter {
	l := &Limiter{
		limits:  make(map[types.Partner]Limits, len(limits)),
		windows: make(map[types.Partner]*window, len(limits)),
		now:     time.Now,
	}
	for partner, lim := range limits {
		l.limits[partner] = lim
	}
	return l
}

// CheckAndRecord admits a request if both windows are under their
// thresholds, recording the request timestamp on admission. On rejection
// it returns a rate_limit PartnerError naming the window and limit, and
// records nothing. Partners without configured limits are always admitted
// and not tracked.
func (l *Limiter) CheckAndRecord(partner types.Partner) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limits[partner]
	if !ok {
		return nil
	}

	w, ok := l.windows[partner]
	if !ok {
		w = &window{}
		l.windows[partner] = w
	}

	now := l.now()
	w.minute = prune(w.minute, now.Add(-time.Minute))
	w.hour = prune(w.hour, now.Add(-time.Hour))

	if lim.RequestsPerMinute > 0 && len(w.minute) >= lim.RequestsPerMinute {
		return types.NewRateLimitError(partner, types.ScopeMinute, lim.RequestsPerMinute)
	}
	if lim.RequestsPerHour > 0 && len(w.hour) >= lim.RequestsPerHour {
		return types.NewRateLimitError(partner, types.ScopeHour, lim.RequestsPerHour)
	}

	w.minute = append(w.minute, now)
	w.hour = append(w.hour, now)
	return nil
}

// WindowCounts returns the pruned lengths of a partner's minute and hour
// windows without recording anything.
func (l *Limiter) WindowCounts(partner types.Partner) (minute, hour int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[partner]
	if !ok {
		return 0, 0
	}

	now := l.now()
	w.minute = prune(w.minute, now.Add(-time.Minute))
	w.hour = prune(w.hour, now.Add(-time.Hour))
	return len(w.minute), len(w.hour)
}

// prune discards timestamps at or before the cutoff. Timestamps are
// appended in order, so the retained tail keeps that order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return stamps
	}
	return append(stamps[:0], stamps[idx:]...)
}
