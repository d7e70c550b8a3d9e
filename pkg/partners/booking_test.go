package partners

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actyme/ota-partner-kit/pkg/types"
)

func TestBookingAuthenticate_APIKeyOnly(t *testing.T) {
	s := newBookingStrategy()
	req, err := http.NewRequest(http.MethodGet, "https://api.booking.com/v1/hotels", nil)
	require.NoError(t, err)

	s.Authenticate(req, Config{APIKey: "bk-key"})

	assert.Equal(t, "bk-key", req.Header.Get("X-Booking-API-Key"))
	assert.Empty(t, req.Header.Get("X-Booking-Timestamp"))
	assert.Empty(t, req.Header.Get("X-Booking-Signature"))
}

func TestBookingAuthenticate_HMACSignature(t *testing.T) {
	s := newBookingStrategy()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	req, err := http.NewRequest(http.MethodPost, "https://api.booking.com/v1/reservations", nil)
	require.NoError(t, err)

	cfg := Config{APIKey: "bk-key", APISecret: "bk-secret"}
	s.Authenticate(req, cfg)

	timestamp := strconv.FormatInt(fixed.UnixMilli(), 10)
	assert.Equal(t, timestamp, req.Header.Get("X-Booking-Timestamp"))

	mac := hmac.New(sha256.New, []byte("bk-secret"))
	mac.Write([]byte(timestamp + http.MethodPost + "https://api.booking.com/v1/reservations"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), req.Header.Get("X-Booking-Signature"))
}

func TestBookingTransform_MapsHotelsToProperties(t *testing.T) {
	s := newBookingStrategy()
	resp := &types.StandardResponse{
		Partner: types.PartnerBooking,
		Data: map[string]interface{}{
			"hotels": []interface{}{
				map[string]interface{}{
					"hotel_id":        "1",
					"hotel_name":      "X",
					"city":            "Y",
					"class":           float64(3),
					"min_total_price": float64(100),
					"currency_code":   "USD",
				},
			},
		},
	}

	s.Transform(resp)

	assert.NotContains(t, resp.Data, "hotels")
	properties, ok := resp.Data["properties"].([]types.Property)
	require.True(t, ok)
	require.Len(t, properties, 1)
	assert.Equal(t, types.Property{
		ID:       "1",
		Name:     "X",
		Location: "Y",
		Rating:   3,
		Price:    100,
		Currency: "USD",
	}, properties[0])
}

func TestBookingTransform_NoHotelListPassesThrough(t *testing.T) {
	s := newBookingStrategy()
	resp := &types.StandardResponse{
		Partner: types.PartnerBooking,
		Data:    map[string]interface{}{"availability": true},
	}

	s.Transform(resp)

	assert.Equal(t, map[string]interface{}{"availability": true}, resp.Data)
}
