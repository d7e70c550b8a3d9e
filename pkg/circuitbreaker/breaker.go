// Package circuitbreaker stops calling partners that are persistently
// failing. Each partner gets a failure-count state machine with a
// cool-down that grows linearly with the cumulative failure count.
package circuitbreaker

import (
	"sync"
	"time"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation; requests pass through.
	StateOpen                  // Failing; requests are rejected until the cool-down elapses.
	StateHalfOpen              // Probing; a single trial request is allowed.
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config controls the breaker's thresholds.
type Config struct {
	// FailureThreshold is the failure count at which the breaker opens.
	FailureThreshold int

	// CoolDownUnit scales the open cool-down: cool-down = unit × failures.
	// The failure count is not reset when the breaker opens, so repeated
	// trips compound the cool-down until a success closes the breaker.
	CoolDownUnit time.Duration

	// MaxCoolDown caps the compounding cool-down. Zero disables the cap
	// and restores the unbounded growth of the original policy.
	MaxCoolDown time.Duration
}

// record is the per-partner breaker state.
type record struct {
	failures        int
	lastFailureTime time.Time
	state           State
	nextAttemptTime time.Time

	// trialInFlight guards the half-open state so that exactly one
	// concurrent caller gets the trial request.
	trialInFlight bool
}

// Breaker tracks circuit state for all partners. All transitions are
// serialized under the breaker's mutex.
type Breaker struct {
	mu      sync.Mutex
	cfg     Config
	records map[types.Partner]*record

	// now is the clock; replaced in tests.
	now func() time.Time
}

// New creates a Breaker with a closed, zero-failure record for every
// given partner. Records persist for the breaker's lifetime and are
// never deleted.
func New(cfg Config, partners []types.Partner) *Breaker {
	b := &Breaker{
		cfg:     cfg,
		records: make(map[types.Partner]*record, len(partners)),
		now:     time.Now,
	}
	for _, partner := range partners {
		b.records[partner] = &record{state: StateClosed}
	}
	return b
}

// Admit reports whether a request to the partner may proceed. In the
// open state it fails fast with a circuit_open error carrying the
// remaining cool-down; once the cool-down elapses the first caller
// transitions the breaker to half-open and is admitted as the single
// trial. Further callers are rejected until the trial's outcome is
// recorded.
func (b *Breaker) Admit(partner types.Partner) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.record(partner)
	now := b.now()

	switch r.state {
	case StateOpen:
		if now.Before(r.nextAttemptTime) {
			return types.NewCircuitOpenError(partner, r.nextAttemptTime.Sub(now))
		}
		r.state = StateHalfOpen
		r.trialInFlight = true
		return nil
	case StateHalfOpen:
		if r.trialInFlight {
			return types.NewCircuitOpenError(partner, 0)
		}
		r.trialInFlight = true
		return nil
	default:
		return nil
	}
}

// RecordSuccess resets the partner's failure count and closes the breaker.
func (b *Breaker) RecordSuccess(partner types.Partner) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.record(partner)
	r.failures = 0
	r.state = StateClosed
	r.trialInFlight = false
	r.nextAttemptTime = time.Time{}
}

// RecordFailure increments the partner's failure count and opens the
// breaker once the threshold is reached. The cool-down is
// CoolDownUnit × failures, capped at MaxCoolDown when set.
func (b *Breaker) RecordFailure(partner types.Partner) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.record(partner)
	now := b.now()
	r.failures++
	r.lastFailureTime = now
	r.trialInFlight = false

	if r.failures >= b.cfg.FailureThreshold {
		coolDown := time.Duration(r.failures) * b.cfg.CoolDownUnit
		if b.cfg.MaxCoolDown > 0 && coolDown > b.cfg.MaxCoolDown {
			coolDown = b.cfg.MaxCoolDown
		}
		r.state = StateOpen
		r.nextAttemptTime = now.Add(coolDown)
	}
}

// State returns the partner's current state.
func (b *Breaker) State(partner types.Partner) State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record(partner).state
}

// Snapshot returns a point-in-time view of every partner's breaker.
func (b *Breaker) Snapshot() map[types.Partner]types.BreakerSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := make(map[types.Partner]types.BreakerSnapshot, len(b.records))
	for partner, r := range b.records {
		s := types.BreakerSnapshot{
			State:    r.state.String(),
			Failures: r.failures,
		}
		if !r.lastFailureTime.IsZero() {
			t := r.lastFailureTime
			s.LastFailure = &t
		}
		snap[partner] = s
	}
	return snap
}

// record returns the partner's state, creating a closed record for
// partners unknown at construction.
func (b *Breaker) record(partner types.Partner) *record {
	r, ok := b.records[partner]
	if !ok {
		r = &record{state: StateClosed}
		b.records[partner] = r
	}
	return r
}
