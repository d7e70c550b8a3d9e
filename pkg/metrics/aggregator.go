// Package metrics aggregates request outcomes into running counters and
// incremental response-time means, globally and per partner, and can
// mirror the same counters into Prometheus instruments.
package metrics

import (
	"sync"
	"time"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// partnerRecord holds the per-partner counters.
type partnerRecord struct {
	requests  int64
	successes int64
	failures  int64
	avgNanos  float64
}

// Aggregator records the outcome of every completed attempt. Counters
// are only ever incremented; the response-time averages are incremental
// running means. Safe for concurrent use.
type Aggregator struct {
	mu sync.Mutex

	totalRequests      int64
	successfulRequests int64
	failedRequests     int64
	avgNanos           float64

	partners map[types.Partner]*partnerRecord

	collectors *Collectors
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		partners: make(map[types.Partner]*partnerRecord),
	}
}

// SetCollectors mirrors every Record call into the given Prometheus
// instruments. Pass nil to stop mirroring.
func (a *Aggregator) SetCollectors(c *Collectors) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collectors = c
}

// Record updates the global and per-partner counters for one completed
// attempt. The per-partner record is created lazily. It cannot fail and
// never rolls back.
func (a *Aggregator) Record(partner types.Partner, elapsed time.Duration, success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRequests++
	a.avgNanos = runningMean(a.avgNanos, a.totalRequests, elapsed)
	if success {
		a.successfulRequests++
	} else {
		a.failedRequests++
	}

	pr, ok := a.partners[partner]
	if !ok {
		pr = &partnerRecord{}
		a.partners[partner] = pr
	}
	pr.requests++
	pr.avgNanos = runningMean(pr.avgNanos, pr.requests, elapsed)
	if success {
		pr.successes++
	} else {
		pr.failures++
	}

	if a.collectors != nil {
		a.collectors.observe(partner, elapsed, success)
	}
}

// Snapshot returns a point-in-time copy of all counters. The snapshot's
// CircuitBreakers field is left empty; the client merges breaker state in.
func (a *Aggregator) Snapshot() types.MetricsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := types.MetricsSnapshot{
		TotalRequests:       a.totalRequests,
		SuccessfulRequests:  a.successfulRequests,
		FailedRequests:      a.failedRequests,
		AverageResponseTime: time.Duration(a.avgNanos),
		Partners:            make(map[types.Partner]types.PartnerMetricsSnapshot, len(a.partners)),
	}
	for partner, pr := range a.partners {
		snap.Partners[partner] = types.PartnerMetricsSnapshot{
			Requests:            pr.requests,
			Successes:           pr.successes,
			Failures:            pr.failures,
			AverageResponseTime: time.Duration(pr.avgNanos),
		}
	}
	return snap
}

// runningMean folds one new sample into an incremental mean:
// ((prev × (n-1)) + sample) / n.
func runningMean(prevNanos float64, n int64, sample time.Duration) float64 {
	return (prevNanos*float64(n-1) + float64(sample.Nanoseconds())) / float64(n)
}
