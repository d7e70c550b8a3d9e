package partners

import (
	"net/http"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

const headerExpediaAPIKey = "X-Expedia-API-Key"

// expediaStrategy authenticates with an API-key header only.
type expediaStrategy struct{}

func newExpediaStrategy() expediaStrategy {
	return expediaStrategy{}
}

func (expediaStrategy) Partner() types.Partner {
	return types.PartnerExpedia
}

func (expediaStrategy) Authenticate(req *http.Request, cfg Config) {
	req.Header.Set(headerExpediaAPIKey, cfg.APIKey)
}

// Transform is a pass-through; Expedia payloads are returned as-is.
// Extension point for a shape transform once one is defined.
func (expediaStrategy) Transform(*types.StandardResponse) {}
