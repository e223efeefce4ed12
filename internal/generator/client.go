// Package generator talks to the remote password generation service.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vaultpass/pwgen/internal/model"
)

// Path is appended to the base path to reach the generation endpoint.
const Path = "generate-password"

// maxResponseBytes caps how much of a reply is read.
const maxResponseBytes = 1 << 20

// Client posts generation requests to the service.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
// Option changes can fire requests in quick succession; the limiter spaces
// them out instead of dropping them.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewClient creates a Client for the service rooted at basePath. basePath
// is used verbatim as a prefix, like a page-relative base, so it normally
// ends with a slash.
func NewClient(basePath string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: basePath + Path,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate submits req and returns the decoded reply. All failures are
// reported as *GenerationError.
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.GenerateResponse{}, &GenerationError{Kind: KindTransport, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
		}
	}

	body := strings.NewReader(req.Form().Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return model.GenerateResponse{}, &GenerationError{Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.GenerateResponse{}, &GenerationError{Kind: KindTransport, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return model.GenerateResponse{}, &GenerationError{Kind: KindResponse, StatusCode: resp.StatusCode}
	}

	var out model.GenerateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return model.GenerateResponse{}, &GenerationError{Kind: KindParse, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.Password == nil && out.Passwords == nil {
		return model.GenerateResponse{}, &GenerationError{Kind: KindParse, StatusCode: resp.StatusCode, Err: fmt.Errorf("response has neither password nor passwords")}
	}

	return out, nil
}
