// Package types defines the value types shared across the OTA partner kit:
// the standardized response shape, request options, health reports, metrics
// snapshots, and the partner error taxonomy.
package types

import "time"

// Partner identifies a configured OTA integration target.
type Partner string

// The fixed set of supported partners. Each partner is a static
// configuration entry, not a dynamically loaded unit.
const (
	PartnerBooking Partner = "booking"
	PartnerExpedia Partner = "expedia"
	PartnerAirbnb  Partner = "airbnb"
)

// String returns the partner name.
func (p Partner) String() string {
	return string(p)
}

// Response source labels used in ResponseMetadata.Source.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// RequestOptions carries optional per-call overrides for an outbound
// partner request.
type RequestOptions struct {
	// Method is the HTTP method; GET when empty.
	Method string

	// Headers are merged into the request after the base headers, so a
	// caller-supplied header wins over a default one.
	Headers map[string]string
}

// ResponseMetadata describes where a StandardResponse came from.
type ResponseMetadata struct {
	Source string `json:"source"`
	Cached bool   `json:"cached"`
	Reason string `json:"reason,omitempty"`
}

// StandardResponse is the normalized shape every partner payload is
// converted into before being returned to the caller. It is produced
// fresh per call and never persisted.
type StandardResponse struct {
	Partner   Partner                `json:"partner"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

// Property is the normalized accommodation record produced by partner
// response transforms and by fallback stubs.
type Property struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	Rating       float64 `json:"rating"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Availability bool    `json:"availability,omitempty"`
}
