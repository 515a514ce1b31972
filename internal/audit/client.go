// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the audit client.
type ClientConfig struct {
	// BaseURL is the audit service base URL (default: http://localhost:8000)
	BaseURL string

	// AuditPath is the audit endpoint path (default: /audit)
	AuditPath string

	// HealthPath is the health endpoint path (default: /health)
	HealthPath string

	// CategoriesPath is the categories endpoint path (default: /categories)
	CategoriesPath string

	// Timeout bounds an audit request. Zero means no timeout: the audit
	// pipeline is slow and a pending request is a normal state.
	Timeout time.Duration

	// ProbeTimeout bounds the health and categories requests (default: 5s)
	ProbeTimeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        "http://localhost:8000",
		AuditPath:      "/audit",
		HealthPath:     "/health",
		CategoriesPath: "/categories",
		Timeout:        0,
		ProbeTimeout:   5 * time.Second,
		UserAgent:      "fiscalpulse-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the audit service.
//
// The Client is safe for concurrent use; its configuration is fixed at
// construction. To point at a different service, build a new Client.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new audit client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new audit client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	defaults := DefaultConfig()

	// Fill in defaults for any zero values
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.AuditPath == "" {
		cfg.AuditPath = defaults.AuditPath
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = defaults.HealthPath
	}
	if cfg.CategoriesPath == "" {
		cfg.CategoriesPath = defaults.CategoriesPath
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = defaults.ProbeTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	return &Client{
		config: &cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the service base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// AuditURL returns the full URL of the audit endpoint.
func (c *Client) AuditURL() string {
	return c.endpoint(c.config.AuditPath)
}

// CloseIdleConnections releases pooled keep-alive connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) endpoint(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.config.BaseURL + path
}

// =============================================================================
// AUDIT
// =============================================================================

// Audit submits query to the audit service and returns the decoded result.
//
// Every failure is returned as a *ClientError. Only a non-2xx response with a
// string "detail" field populates ClientError.Detail.
func (c *Client) Audit(ctx context.Context, query string) (*Result, error) {
	body, err := json.Marshal(Request{Query: query})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeEncode, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuditURL(), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeEncode, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setCommonHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "audit service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ce := &ClientError{
			Type:    ErrTypeStatus,
			Status:  resp.StatusCode,
			Message: "audit request failed: " + resp.Status,
		}
		var errBody ErrorBody
		if err := json.Unmarshal(data, &errBody); err == nil {
			if detail, ok := errBody.DetailString(); ok {
				ce.Detail = detail
			}
		}
		return nil, ce
	}

	var rb resultBody
	if err := json.Unmarshal(data, &rb); err != nil {
		return nil, &ClientError{Type: ErrTypeMalformed, Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	result, ok := rb.result()
	if !ok {
		return nil, &ClientError{Type: ErrTypeMalformed, Status: resp.StatusCode, Message: "response is missing required fields"}
	}

	return &result, nil
}

// =============================================================================
// SERVICE PROBES
// =============================================================================

// Health queries GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, c.config.HealthPath, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Categories queries GET /categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var result CategoriesResponse
	if err := c.getJSON(ctx, c.config.CategoriesPath, &result); err != nil {
		return nil, err
	}
	return result.Categories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return &ClientError{Type: ErrTypeEncode, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	c.setCommonHeaders(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "audit service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeStatus,
			Status:  resp.StatusCode,
			Message: "unexpected status from " + path + ": " + resp.Status,
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeMalformed, Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) setCommonHeaders(ctx context.Context, req *http.Request) {
	id := RequestIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("User-Agent", c.config.UserAgent)
}

// =============================================================================
// REQUEST CORRELATION
// =============================================================================

type requestIDKey struct{}

// WithRequestID returns a context carrying id as the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
