// Package partners holds the static per-partner configuration registry
// and the strategy objects that apply partner-specific authentication
// and response reshaping. The partner set is fixed and small, so each
// partner is a named strategy rather than an open-ended conditional.
package partners

import (
	"net/http"
	"sort"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// Strategy applies one partner's authentication to an outbound request
// and reshapes its normalized response payload.
type Strategy interface {
	// Partner returns the partner this strategy serves.
	Partner() types.Partner

	// Authenticate adds the partner-specific credential headers to an
	// outbound request. The base headers are already set.
	Authenticate(req *http.Request, cfg Config)

	// Transform reshapes the normalized response payload in place.
	Transform(resp *types.StandardResponse)
}

// Registry is the immutable partner configuration table plus the
// strategy for each configured partner. Loaded once at startup.
type Registry struct {
	configs    map[types.Partner]Config
	strategies map[types.Partner]Strategy
}

// NewRegistry builds a Registry for the given configurations. Partners
// without a dedicated strategy get the pass-through strategy.
func NewRegistry(configs map[types.Partner]Config) *Registry {
	r := &Registry{
		configs:    make(map[types.Partner]Config, len(configs)),
		strategies: make(map[types.Partner]Strategy, len(configs)),
	}
	for partner, cfg := range configs {
		r.configs[partner] = cfg
		switch partner {
		case types.PartnerBooking:
			r.strategies[partner] = newBookingStrategy()
		case types.PartnerExpedia:
			r.strategies[partner] = newExpediaStrategy()
		case types.PartnerAirbnb:
			r.strategies[partner] = newAirbnbStrategy()
		default:
			r.strategies[partner] = passthroughStrategy{partner: partner}
		}
	}
	return r
}

// Config returns the configuration for a partner.
func (r *Registry) Config(partner types.Partner) (Config, bool) {
	cfg, ok := r.configs[partner]
	return cfg, ok
}

// Strategy returns the strategy for a partner, falling back to the
// pass-through strategy for unknown partners.
func (r *Registry) Strategy(partner types.Partner) Strategy {
	if s, ok := r.strategies[partner]; ok {
		return s
	}
	return passthroughStrategy{partner: partner}
}

// Partners returns the configured partner names in stable sorted order.
func (r *Registry) Partners() []types.Partner {
	names := make([]types.Partner, 0, len(r.configs))
	for partner := range r.configs {
		names = append(names, partner)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// passthroughStrategy adds no partner-specific auth and leaves the
// response payload untouched.
type passthroughStrategy struct {
	partner types.Partner
}

func (s passthroughStrategy) Partner() types.Partner             { return s.partner }
func (s passthroughStrategy) Authenticate(*http.Request, Config) {}
func (s passthroughStrategy) Transform(*types.StandardResponse)  {}

// stringField reads a string value from a decoded JSON object.
func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// numberField reads a numeric value from a decoded JSON object.
// encoding/json decodes all JSON numbers as float64.
func numberField(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
