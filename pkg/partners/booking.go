package partners

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

// Booking.com credential headers.
const (
	headerBookingAPIKey    = "X-Booking-API-Key"
	headerBookingTimestamp = "X-Booking-Timestamp"
	headerBookingSignature = "X-Booking-Signature"
)

// bookingStrategy authenticates with an API-key header and, when a
// secret is configured, an HMAC-SHA256 signature over
// timestamp + method + url. Its transform maps Booking's hotel list to
// the normalized property records.
type bookingStrategy struct {
	// now supplies the signature timestamp; replaced in tests.
	now func() time.Time
}

func newBookingStrategy() *bookingStrategy {
	return &bookingStrategy{now: time.Now}
}

func (s *bookingStrategy) Partner() types.Partner {
	return types.PartnerBooking
}

func (s *bookingStrategy) Authenticate(req *http.Request, cfg Config) {
	req.Header.Set(headerBookingAPIKey, cfg.APIKey)
	if cfg.APISecret == "" {
		return
	}

	timestamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	mac := hmac.New(sha256.New, []byte(cfg.APISecret))
	mac.Write([]byte(timestamp + req.Method + req.URL.String()))
	req.Header.Set(headerBookingTimestamp, timestamp)
	req.Header.Set(headerBookingSignature, hex.EncodeToString(mac.Sum(nil)))
}

// Transform replaces Booking's hotel list with normalized property
// records. Payloads without a hotel list pass through untouched.
func (s *bookingStrategy) Transform(resp *types.StandardResponse) {
	hotels, ok := resp.Data["hotels"].([]interface{})
	if !ok {
		return
	}

	properties := make([]types.Property, 0, len(hotels))
	for _, entry := range hotels {
		hotel, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		properties = append(properties, types.Property{
			ID:       stringField(hotel, "hotel_id"),
			Name:     stringField(hotel, "hotel_name"),
			Location: stringField(hotel, "city"),
			Rating:   numberField(hotel, "class"),
			Price:    numberField(hotel, "min_total_price"),
			Currency: stringField(hotel, "currency_code"),
		})
	}

	resp.Data["properties"] = properties
	delete(resp.Data, "hotels")
}
