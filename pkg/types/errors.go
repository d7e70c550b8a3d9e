package types

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode categorizes partner request errors.
type ErrorCode string

const (
	ErrCodeUnknown        ErrorCode = "unknown"
	ErrCodeRateLimit      ErrorCode = "rate_limit"
	ErrCodeCircuitOpen    ErrorCode = "circuit_open"
	ErrCodeUnconfigured   ErrorCode = "unconfigured"
	ErrCodeNetwork        ErrorCode = "network"
	ErrCodeTimeout        ErrorCode = "timeout"
	ErrCodeServerError    ErrorCode = "server_error"
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
)

// RateLimitScope identifies which rolling window rejected a request.
type RateLimitScope string

const (
	ScopeMinute RateLimitScope = "minute"
	ScopeHour   RateLimitScope = "hour"
)

// PartnerError is the standardized error returned by the partner kit.
type PartnerError struct {
	Code        ErrorCode      // Categorized error code
	Partner     Partner        // Which partner the request targeted
	Message     string         // Human-readable message
	Operation   string         // Endpoint or operation that failed
	StatusCode  int            // HTTP status code (0 if not applicable)
	RetryAfter  time.Duration  // Cool-down remaining (circuit breaker)
	Scope       RateLimitScope // Window that rejected the request (rate limiter)
	Limit       int            // Limit of the rejecting window (rate limiter)
	OriginalErr error          // Wrapped original error
}

// Error implements the error interface.
func (e *PartnerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (status=%d, code=%s)", e.Partner, e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("[%s] %s (code=%s)", e.Partner, e.Message, e.Code)
}

// Unwrap returns the original error for errors.Is/As.
func (e *PartnerError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if the error is potentially recoverable by the
// orchestrator's retry loop. Misconfiguration and malformed requests are
// permanent and must not consume retry attempts.
func (e *PartnerError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRateLimit, ErrCodeCircuitOpen, ErrCodeNetwork, ErrCodeTimeout, ErrCodeServerError:
		return true
	}
	return false
}

// WithOperation sets the operation field and returns the error for chaining.
func (e *PartnerError) WithOperation(operation string) *PartnerError {
	e.Operation = operation
	return e
}

// WithStatusCode sets the status code field and returns the error for chaining.
func (e *PartnerError) WithStatusCode(statusCode int) *PartnerError {
	e.StatusCode = statusCode
	return e
}

// WithOriginalErr sets the original error field and returns the error for chaining.
func (e *PartnerError) WithOriginalErr(err error) *PartnerError {
	e.OriginalErr = err
	return e
}

// NewPartnerError creates a new PartnerError.
func NewPartnerError(partner Partner, code ErrorCode, message string) *PartnerError {
	return &PartnerError{
		Code:    code,
		Partner: partner,
		Message: message,
	}
}

// NewRateLimitError reports a request rejected by a rolling window.
func NewRateLimitError(partner Partner, scope RateLimitScope, limit int) *PartnerError {
	return &PartnerError{
		Code:    ErrCodeRateLimit,
		Partner: partner,
		Message: fmt.Sprintf("rate limit exceeded: %d/%s", limit, scope),
		Scope:   scope,
		Limit:   limit,
	}
}

// NewCircuitOpenError reports a request rejected by an open circuit breaker.
func NewCircuitOpenError(partner Partner, retryAfter time.Duration) *PartnerError {
	return &PartnerError{
		Code:       ErrCodeCircuitOpen,
		Partner:    partner,
		Message:    fmt.Sprintf("circuit breaker open, next attempt in %s", retryAfter.Round(time.Second)),
		RetryAfter: retryAfter,
	}
}

// NewUnconfiguredError reports a partner with no configuration or API key.
func NewUnconfiguredError(partner Partner) *PartnerError {
	return &PartnerError{
		Code:    ErrCodeUnconfigured,
		Partner: partner,
		Message: "partner not configured or missing API key",
	}
}

// NewNetworkError reports a transport-level failure.
func NewNetworkError(partner Partner, message string) *PartnerError {
	return &PartnerError{
		Code:    ErrCodeNetwork,
		Partner: partner,
		Message: message,
	}
}

// NewTimeoutError reports a request that exceeded the partner's timeout.
func NewTimeoutError(partner Partner, message string) *PartnerError {
	return &PartnerError{
		Code:    ErrCodeTimeout,
		Partner: partner,
		Message: message,
	}
}

// NewServerError reports a non-2xx response from a partner API.
func NewServerError(partner Partner, statusCode int, message string) *PartnerError {
	return &PartnerError{
		Code:       ErrCodeServerError,
		Partner:    partner,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewInvalidRequestError reports a request or response the kit could not
// build or parse.
func NewInvalidRequestError(partner Partner, message string) *PartnerError {
	return &PartnerError{
		Code:    ErrCodeInvalidRequest,
		Partner: partner,
		Message: message,
	}
}

// ClassifyHTTPError determines an error code from an HTTP status.
func ClassifyHTTPError(statusCode int) ErrorCode {
	switch statusCode {
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return ErrCodeInvalidRequest
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		if statusCode >= 500 {
			return ErrCodeServerError
		}
		return ErrCodeUnknown
	}
}
