package partners

import (
	"net/http"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

const headerAirbnbAPIKey = "X-Airbnb-API-Key"

// airbnbStrategy authenticates with an API-key header only.
type airbnbStrategy struct{}

func newAirbnbStrategy() airbnbStrategy {
	return airbnbStrategy{}
}

func (airbnbStrategy) Partner() types.Partner {
	return types.PartnerAirbnb
}

func (airbnbStrategy) Authenticate(req *http.Request, cfg Config) {
	req.Header.Set(headerAirbnbAPIKey, cfg.APIKey)
}

// Transform is a pass-through; Airbnb payloads are returned as-is.
// Extension point for a shape transform once one is defined.
func (airbnbStrategy) Transform(*types.StandardResponse) {}
