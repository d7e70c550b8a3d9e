package types

import "time"

// PartnerMetricsSnapshot holds the per-partner request counters and the
// incremental response-time mean.
type PartnerMetricsSnapshot struct {
	Requests            int64         `json:"requests"`
	Successes           int64         `json:"successes"`
	Failures            int64         `json:"failures"`
	AverageResponseTime time.Duration `json:"average_response_time"`
}

// BreakerSnapshot is a point-in-time view of one partner's circuit
// breaker, included in metrics snapshots for observability.
type BreakerSnapshot struct {
	State       string     `json:"state"`
	Failures    int        `json:"failures"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
}

// MetricsSnapshot is a point-in-time copy of the aggregator's counters.
// Counters only ever move forward; a snapshot is never rolled back.
type MetricsSnapshot struct {
	TotalRequests       int64                              `json:"total_requests"`
	SuccessfulRequests  int64                              `json:"successful_requests"`
	FailedRequests      int64                              `json:"failed_requests"`
	AverageResponseTime time.Duration                      `json:"average_response_time"`
	Partners            map[Partner]PartnerMetricsSnapshot `json:"partners"`
	CircuitBreakers     map[Partner]BreakerSnapshot        `json:"circuit_breakers,omitempty"`
}
