// Package httputil provides the request-building helpers used by the
// partner request executor.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// RequestBuilder assembles outbound partner requests with common
// patterns: JSON bodies, query parameters, and header sets.
type RequestBuilder struct {
	method  string
	url     string
	headers map[string]string
	query   map[string]interface{}
	body    interface{}
	ctx     context.Context
}

// NewRequestBuilder creates a builder for the given method and URL.
func NewRequestBuilder(method, url string) *RequestBuilder {
	return &RequestBuilder{
		method:  method,
		url:     url,
		headers: make(map[string]string),
		ctx:     context.Background(),
	}
}

// WithContext sets the request context.
func (rb *RequestBuilder) WithContext(ctx context.Context) *RequestBuilder {
	rb.ctx = ctx
	return rb
}

// WithHeader adds a single header.
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithHeaders adds a set of headers. Later additions win.
func (rb *RequestBuilder) WithHeaders(headers map[string]string) *RequestBuilder {
	for k, v := range headers {
		rb.headers[k] = v
	}
	return rb
}

// WithQueryParams encodes the given parameters into the URL query
// string. Values are rendered with their default string form.
func (rb *RequestBuilder) WithQueryParams(params map[string]interface{}) *RequestBuilder {
	rb.query = params
	return rb
}

// WithJSONBody sets a JSON body and the matching content type.
func (rb *RequestBuilder) WithJSONBody(body interface{}) *RequestBuilder {
	rb.body = body
	rb.headers["Content-Type"] = "application/json"
	return rb
}

// Build creates the HTTP request.
func (rb *RequestBuilder) Build() (*http.Request, error) {
	target := rb.url
	if len(rb.query) > 0 {
		parsed, err := url.Parse(rb.url)
		if err != nil {
			return nil, fmt.Errorf("failed to parse request URL: %w", err)
		}
		q := parsed.Query()
		for key, value := range rb.query {
			q.Set(key, fmt.Sprint(value))
		}
		parsed.RawQuery = q.Encode()
		target = parsed.String()
	}

	var bodyReader io.Reader
	if rb.body != nil {
		jsonBody, err := json.Marshal(rb.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(rb.ctx, rb.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// DecodeJSONBody reads and decodes a JSON response body into a generic
// map. An empty body yields an empty map.
func DecodeJSONBody(r io.Reader) (map[string]interface{}, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]interface{}{}, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return data, nil
}
