package otaclient

import (
	"fmt"
	"time"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// fallbackReason is recorded in the metadata of every stub response.
const fallbackReason = "Integration unavailable"

// Stub builds the synthetic response served when live integration is
// disabled or exhausted: a single placeholder property tagged with the
// partner name. Deterministic apart from the supplied timestamp; no I/O
// and no failure path.
func Stub(partner types.Partner, endpoint string, params map[string]interface{}, now time.Time) *types.StandardResponse {
	return &types.StandardResponse{
		Partner:   partner,
		Timestamp: now,
		Data: map[string]interface{}{
			"properties": []types.Property{
				{
					ID:           fmt.Sprintf("%s_stub_001", partner),
					Name:         fmt.Sprintf("Sample Hotel - %s", partner),
					Location:     "Sample City",
					Rating:       4,
					Price:        150,
					Currency:     "USD",
					Availability: true,
				},
			},
			"total":   1,
			"message": "This is a fallback response",
		},
		Metadata: types.ResponseMetadata{
			Source: types.SourceFallback,
			Cached: false,
			Reason: fallbackReason,
		},
	}
}
