package partners

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

func testConfigs() map[types.Partner]Config {
	base := Config{
		APIKey:  "key",
		Timeout: 30 * time.Second,
		RateLimits: RateLimits{
			RequestsPerMinute: 100,
			RequestsPerHour:   5000,
		},
	}
	return map[types.Partner]Config{
		types.PartnerBooking: base,
		types.PartnerExpedia: base,
		types.PartnerAirbnb:  base,
	}
}

func TestRegistry_PartnersSorted(t *testing.T) {
	r := NewRegistry(testConfigs())

	assert.Equal(t, []types.Partner{
		types.PartnerAirbnb,
		types.PartnerBooking,
		types.PartnerExpedia,
	}, r.Partners())
}

func TestRegistry_StrategyPerPartner(t *testing.T) {
	r := NewRegistry(testConfigs())

	assert.Equal(t, types.PartnerBooking, r.Strategy(types.PartnerBooking).Partner())
	assert.Equal(t, types.PartnerExpedia, r.Strategy(types.PartnerExpedia).Partner())
	assert.Equal(t, types.PartnerAirbnb, r.Strategy(types.PartnerAirbnb).Partner())
}

func TestRegistry_UnknownPartnerGetsPassthrough(t *testing.T) {
	r := NewRegistry(testConfigs())

	s := r.Strategy(types.Partner("kayak"))
	assert.Equal(t, types.Partner("kayak"), s.Partner())

	req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)
	s.Authenticate(req, Config{APIKey: "ignored"})
	assert.Empty(t, req.Header)

	resp := &types.StandardResponse{Data: map[string]interface{}{"a": 1}}
	s.Transform(resp)
	assert.Equal(t, map[string]interface{}{"a": 1}, resp.Data)
}

func TestRegistry_ConfigLookup(t *testing.T) {
	r := NewRegistry(testConfigs())

	cfg, ok := r.Config(types.PartnerBooking)
	require.True(t, ok)
	assert.Equal(t, "key", cfg.APIKey)

	_, ok = r.Config(types.Partner("kayak"))
	assert.False(t, ok)
}

func TestExpediaAndAirbnbAuthenticate(t *testing.T) {
	for _, tc := range []struct {
		strategy Strategy
		header   string
	}{
		{newExpediaStrategy(), headerExpediaAPIKey},
		{newAirbnbStrategy(), headerAirbnbAPIKey},
	} {
		req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
		require.NoError(t, err)
		tc.strategy.Authenticate(req, Config{APIKey: "secret-key"})
		assert.Equal(t, "secret-key", req.Header.Get(tc.header))
	}
}
