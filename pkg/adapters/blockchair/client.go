package blockchair

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/domain"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Blockchair API endpoint.
const DefaultBaseURL = "https://api.blockchair.com"

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 32 << 20

// Client implements ports.Provider against the Blockchair dashboards API.
type Client struct {
	baseURL string
	chain   string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	codec   Codec
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the API key sent as the "key" query parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithChain selects the chain path segment (default "bitcoin").
func WithChain(chain string) Option {
	return func(c *Client) {
		if chain != "" {
			c.chain = chain
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new Client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		chain:   "bitcoin",
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Codec returns the decoder matching this provider's responses.
func (c *Client) Codec() Codec {
	return c.codec
}

func (c *Client) endpoint(kind domain.Kind, hash string) string {
	u := fmt.Sprintf("%s/%s/dashboards/%s/%s", c.baseURL, c.chain, kind, url.PathEscape(hash))
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	return u
}

// Fetch downloads the raw dashboard for a record.
// Structured errors in the response are returned as domain.ErrQuotaExceeded or domain.ErrProvider.
func (c *Client) Fetch(ctx context.Context, kind domain.Kind, hash string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(kind, hash), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", kind, hash, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Provider fetch", "kind", kind, "hash", hash, "status", res.StatusCode, "duration", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// The body carries the most precise code when it is JSON; otherwise use the HTTP status.
		if err := c.codec.CheckError(body); err != nil && !isMalformed(err) {
			return nil, err
		}
		return nil, statusError(res.StatusCode, http.StatusText(res.StatusCode))
	}

	if err := c.codec.CheckError(body); err != nil {
		return nil, err
	}

	return body, nil
}
