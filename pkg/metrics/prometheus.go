package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// Collectors bundles the Prometheus instruments that mirror the
// aggregator's counters.
type Collectors struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewCollectors creates and registers the partner request instruments on
// the given registerer.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ota_partner_requests_total",
				Help: "Total number of outbound partner request attempts",
			},
			[]string{"partner", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ota_partner_request_duration_seconds",
				Help:    "Duration of outbound partner request attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"partner"},
		),
	}
	reg.MustRegister(c.RequestsTotal, c.RequestDuration)
	return c
}

// observe mirrors one recorded attempt.
func (c *Collectors) observe(partner types.Partner, elapsed time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.RequestsTotal.WithLabelValues(partner.String(), outcome).Inc()
	c.RequestDuration.WithLabelValues(partner.String()).Observe(elapsed.Seconds())
}
