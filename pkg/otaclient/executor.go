package otaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/actyme/ota-partner-kit/internal/httputil"
	"github.com/actyme/ota-partner-kit/pkg/types"
)

// sourceTag identifies this integration to partner APIs.
const sourceTag = "actyme-staging"

// maxErrorBodyBytes bounds how much of an error response is copied into
// the error message.
const maxErrorBodyBytes = 4096

// execute builds and issues one live partner request and normalizes the
// response. It requires a configured API key; anything after that
// precondition is a per-attempt fault for the retry loop to handle.
func (c *Client) execute(ctx context.Context, partner types.Partner, endpoint string, params map[string]interface{}, opts *types.RequestOptions) (*types.StandardResponse, error) {
	pcfg, ok := c.registry.Config(partner)
	if !ok || pcfg.APIKey == "" {
		return nil, types.NewUnconfiguredError(partner).WithOperation(endpoint)
	}

	method := http.MethodGet
	if opts != nil && opts.Method != "" {
		method = strings.ToUpper(opts.Method)
	}

	reqCtx := ctx
	if pcfg.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, pcfg.Timeout)
		defer cancel()
	}

	rb := httputil.NewRequestBuilder(method, pcfg.BaseURL+endpoint).
		WithContext(reqCtx).
		WithHeader("Authorization", "Bearer "+pcfg.APIKey).
		WithHeader("Content-Type", "application/json").
		WithHeader("X-Source", sourceTag).
		WithHeader("X-Request-ID", uuid.NewString())
	if opts != nil {
		rb.WithHeaders(opts.Headers)
	}
	if method == http.MethodGet {
		rb.WithQueryParams(params)
	} else if params != nil {
		rb.WithJSONBody(params)
	}

	req, err := rb.Build()
	if err != nil {
		return nil, types.NewInvalidRequestError(partner, "failed to build request").
			WithOperation(endpoint).
			WithOriginalErr(err)
	}

	strategy := c.registry.Strategy(partner)
	strategy.Authenticate(req, pcfg)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, types.NewTimeoutError(partner, "request timed out").
				WithOperation(endpoint).
				WithOriginalErr(err)
		}
		return nil, types.NewNetworkError(partner, "request failed").
			WithOperation(endpoint).
			WithOriginalErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		code := types.ClassifyHTTPError(resp.StatusCode)
		return nil, types.NewPartnerError(partner, code,
			fmt.Sprintf("partner returned %s: %s", resp.Status, strings.TrimSpace(string(body)))).
			WithOperation(endpoint).
			WithStatusCode(resp.StatusCode)
	}

	data, err := httputil.DecodeJSONBody(resp.Body)
	if err != nil {
		return nil, types.NewInvalidRequestError(partner, "failed to decode partner response").
			WithOperation(endpoint).
			WithOriginalErr(err)
	}

	std := &types.StandardResponse{
		Partner:   partner,
		Timestamp: c.now(),
		Data:      data,
		Metadata:  types.ResponseMetadata{Source: types.SourceLive, Cached: false},
	}
	strategy.Transform(std)
	return std, nil
}
