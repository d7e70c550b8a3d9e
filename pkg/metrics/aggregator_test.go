package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

func TestAggregator_Counters(t *testing.T) {
	agg := NewAggregator()

	agg.Record(types.PartnerBooking, 100*time.Millisecond, true)
	agg.Record(types.PartnerBooking, 200*time.Millisecond, false)
	agg.Record(types.PartnerExpedia, 300*time.Millisecond, true)

	snap := agg.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.SuccessfulRequests)
	assert.Equal(t, int64(1), snap.FailedRequests)
}

func TestAggregator_RunningMean(t *testing.T) {
	agg := NewAggregator()

	samples := []time.Duration{
		120 * time.Millisecond,
		80 * time.Millisecond,
		310 * time.Millisecond,
		45 * time.Millisecond,
	}
	var total time.Duration
	for _, s := range samples {
		agg.Record(types.PartnerAirbnb, s, true)
		total += s
	}

	want := total / time.Duration(len(samples))
	snap := agg.Snapshot()
	assert.InDelta(t, float64(want), float64(snap.AverageResponseTime), float64(time.Microsecond))
	assert.InDelta(t, float64(want), float64(snap.Partners[types.PartnerAirbnb].AverageResponseTime), float64(time.Microsecond))
}

func TestAggregator_PerPartnerRecordsCreatedLazily(t *testing.T) {
	agg := NewAggregator()

	snap := agg.Snapshot()
	assert.Empty(t, snap.Partners)

	agg.Record(types.PartnerBooking, 50*time.Millisecond, false)

	snap = agg.Snapshot()
	require.Contains(t, snap.Partners, types.PartnerBooking)
	pm := snap.Partners[types.PartnerBooking]
	assert.Equal(t, int64(1), pm.Requests)
	assert.Equal(t, int64(0), pm.Successes)
	assert.Equal(t, int64(1), pm.Failures)
}

func TestAggregator_SnapshotIsACopy(t *testing.T) {
	agg := NewAggregator()
	agg.Record(types.PartnerBooking, 10*time.Millisecond, true)

	snap := agg.Snapshot()
	agg.Record(types.PartnerBooking, 10*time.Millisecond, true)

	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(2), agg.Snapshot().TotalRequests)
}

func TestCollectors_MirrorAggregator(t *testing.T) {
	registry := prometheus.NewRegistry()
	agg := NewAggregator()
	agg.SetCollectors(NewCollectors(registry))

	agg.Record(types.PartnerBooking, 100*time.Millisecond, true)
	agg.Record(types.PartnerBooking, 100*time.Millisecond, false)
	agg.Record(types.PartnerBooking, 100*time.Millisecond, false)

	c := agg.collectors
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("booking", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("booking", "failure")))

	snap := agg.Snapshot()
	assert.Equal(t, snap.SuccessfulRequests, int64(testutil.ToFloat64(c.RequestsTotal.WithLabelValues("booking", "success"))))
	assert.Equal(t, snap.FailedRequests, int64(testutil.ToFloat64(c.RequestsTotal.WithLabelValues("booking", "failure"))))
}
