package types

import "time"

// HealthStatus summarizes the availability of a partner or of the whole
// integration surface.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// PartnerHealth is the result of a single partner probe.
type PartnerHealth struct {
	Status HealthStatus `json:"status"`

	// ResponseTimeMS is the probe round-trip in milliseconds, rounded.
	// Only set for healthy partners.
	ResponseTimeMS int64 `json:"response_time_ms,omitempty"`

	// Error is the probe failure message. Only set for unhealthy partners.
	Error string `json:"error,omitempty"`

	LastChecked time.Time `json:"last_checked"`
}

// HealthReport aggregates per-partner probe results with a metrics
// snapshot. Overall is healthy only when every partner probe succeeded,
// degraded otherwise.
type HealthReport struct {
	Overall  HealthStatus              `json:"overall"`
	Partners map[Partner]PartnerHealth `json:"partners"`
	Metrics  MetricsSnapshot           `json:"metrics"`
}
