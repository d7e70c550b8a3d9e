package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

func newTestBreaker(cfg Config) (*Breaker, *time.Time) {
	b := New(cfg, []types.Partner{types.PartnerBooking})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(Config{FailureThreshold: 3, CoolDownUnit: time.Minute})

	b.RecordFailure(types.PartnerBooking)
	b.RecordFailure(types.PartnerBooking)
	assert.Equal(t, StateClosed, b.State(types.PartnerBooking))
	require.NoError(t, b.Admit(types.PartnerBooking))

	b.RecordFailure(types.PartnerBooking)
	assert.Equal(t, StateOpen, b.State(types.PartnerBooking))
}

func TestBreaker_FailsFastWhileOpen(t *testing.T) {
	b, nowPtr := newTestBreaker(Config{FailureThreshold: 2, CoolDownUnit: time.Minute})

	b.RecordFailure(types.PartnerBooking)
	b.RecordFailure(types.PartnerBooking)
	require.Equal(t, StateOpen, b.State(types.PartnerBooking))

	// Cool-down is unit × failures = 2 minutes.
	err := b.Admit(types.PartnerBooking)
	require.Error(t, err)

	var perr *types.PartnerError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, types.ErrCodeCircuitOpen, perr.Code)
	assert.Equal(t, 2*time.Minute, perr.RetryAfter)

	*nowPtr = nowPtr.Add(time.Minute)
	err = b.Admit(types.PartnerBooking)
	require.Error(t, err)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, time.Minute, perr.RetryAfter)
}

func TestBreaker_HalfOpenSingleTrial(t *testing.T) {
	b, nowPtr := newTestBreaker(Config{FailureThreshold: 2, CoolDownUnit: time.Minute})

	b.RecordFailure(types.PartnerBooking)
	b.RecordFailure(types.PartnerBooking)
	*nowPtr = nowPtr.Add(2*time.Minute + time.Second)

	// First caller after the cool-down gets the trial.
	require.NoError(t, b.Admit(types.PartnerBooking))
	assert.Equal(t, StateHalfOpen, b.State(types.PartnerBooking))

	// A second caller during the trial is rejected.
	err := b.Admit(types.PartnerBooking)
	require.Error(t, err)
	var perr *types.PartnerError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, types.ErrCodeCircuitOpen, perr.Code)
}

func TestBreaker_SuccessClosesAndResets(t *testing.T) {
	b, nowPtr := newTestBreaker(Config{FailureThreshold: 2, CoolDownUnit: time.Minute})

	b.RecordFailure(types.PartnerBooking)
	b.RecordFailure(types.PartnerBooking)
	*nowPtr = nowPtr.Add(3 * time.Minute)
	require.NoError(t, b.Admit(types.PartnerBooking))

	b.RecordSuccess(types.PartnerBooking)
	assert.Equal(t, StateClosed, b.State(types.PartnerBooking))

	snap := b.Snapshot()[types.PartnerBooking]
	assert.Equal(t, 0, snap.Failures)
	assert.Equal(t, "closed", snap.State)

	// The trial slot is released as well.
	require.NoError(t, b.Admit(types.PartnerBooking))
}

func TestBreaker_CoolDownCompounds(t *testing.T) {
	b, nowPtr := newTestBreaker(Config{FailureThreshold: 2, CoolDownUnit: time.Minute})

	b.RecordFailure(types.PartnerBooking)
	b.RecordFailure(types.PartnerBooking)

	// Failures are not reset when the breaker opens, so a failed trial
	// compounds the cool-down: 3 × unit after the third failure.
	*nowPtr = nowPtr.Add(2*time.Minute + time.Second)
	require.NoError(t, b.Admit(types.PartnerBooking))
	b.RecordFailure(types.PartnerBooking)

	err := b.Admit(types.PartnerBooking)
	require.Error(t, err)
	var perr *types.PartnerError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3*time.Minute, perr.RetryAfter)
}

func TestBreaker_MaxCoolDownCap(t *testing.T) {
	b, _ := newTestBreaker(Config{
		FailureThreshold: 1,
		CoolDownUnit:     time.Minute,
		MaxCoolDown:      2 * time.Minute,
	})

	for i := 0; i < 10; i++ {
		b.RecordFailure(types.PartnerBooking)
	}

	err := b.Admit(types.PartnerBooking)
	require.Error(t, err)
	var perr *types.PartnerError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2*time.Minute, perr.RetryAfter)
}

func TestBreaker_SnapshotTracksLastFailure(t *testing.T) {
	b, nowPtr := newTestBreaker(Config{FailureThreshold: 5, CoolDownUnit: time.Minute})

	snap := b.Snapshot()[types.PartnerBooking]
	assert.Nil(t, snap.LastFailure)

	b.RecordFailure(types.PartnerBooking)
	snap = b.Snapshot()[types.PartnerBooking]
	require.NotNil(t, snap.LastFailure)
	assert.Equal(t, *nowPtr, *snap.LastFailure)
	assert.Equal(t, 1, snap.Failures)
}
