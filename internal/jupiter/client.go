// Package jupiter is the client for the liquidity aggregator's quote,
// execution and recent-listing APIs. All calls go out through the rotating
// proxy pool; rate-limited responses are retried with a fixed delay, any
// other non-success status fails the caller immediately.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"solana-sniper/internal/observability"
	"solana-sniper/internal/proxy"
)

// Default endpoints and tuning values.
const (
	DefaultQuoteEndpoint  = "https://lite-api.jup.ag/swap/v1/quote"
	DefaultSwapEndpoint   = "https://quote-api.jup.ag/v6/swap"
	DefaultRecentEndpoint = "https://lite-api.jup.ag/tokens/v2/recent"

	DefaultTimeout    = 20 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 500 * time.Millisecond
	DefaultBatchSize  = 3
	DefaultBatchPause = 300 * time.Millisecond

	// Priority fee cap sent with every swap request.
	maxPriorityFeeLamports = 10000
)

// Client talks to the aggregator APIs.
type Client struct {
	quoteEndpoint  string
	swapEndpoint   string
	recentEndpoint string

	pool       *proxy.Pool
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	batchSize  int
	batchPause time.Duration
	logger     *log.Logger

	// newHTTPClient builds the per-request client; replaceable in tests.
	newHTTPClient func(proxyURL *url.URL) *http.Client
}

// Option configures Client.
type Option func(*Client)

// WithEndpoints overrides the quote, swap and recent-listing URLs.
func WithEndpoints(quote, swap, recent string) Option {
	return func(c *Client) {
		if quote != "" {
			c.quoteEndpoint = quote
		}
		if swap != "" {
			c.swapEndpoint = swap
		}
		if recent != "" {
			c.recentEndpoint = recent
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxRetries sets how many extra attempts a rate-limited request gets.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryDelay sets the fixed sleep between rate-limited attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithBatchSize sets the quote fan-out group size.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBatchPause sets the cooperative pause between quote batches.
func WithBatchPause(d time.Duration) Option {
	return func(c *Client) { c.batchPause = d }
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an aggregator client using the given proxy pool. A nil
// pool makes every call direct.
func NewClient(pool *proxy.Pool, opts ...Option) *Client {
	c := &Client{
		quoteEndpoint:  DefaultQuoteEndpoint,
		swapEndpoint:   DefaultSwapEndpoint,
		recentEndpoint: DefaultRecentEndpoint,
		pool:           pool,
		timeout:        DefaultTimeout,
		maxRetries:     DefaultMaxRetries,
		retryDelay:     DefaultRetryDelay,
		batchSize:      DefaultBatchSize,
		batchPause:     DefaultBatchPause,
		logger:         log.Default(),
	}
	c.newHTTPClient = func(proxyURL *url.URL) *http.Client {
		return proxy.HTTPClient(proxyURL, c.timeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = proxy.NewPool(nil)
	}
	return c
}

// fetchJSON performs one logical request through the given egress identity.
// A 429 sleeps retryDelay and retries, up to maxRetries additional attempts;
// exhausting the budget yields ErrRetriesExhausted naming the URL. Any other
// non-success status fails immediately with an UpstreamError carrying the
// tag. On success the raw body is returned for the caller to decode.
func (c *Client) fetchJSON(ctx context.Context, method, reqURL string, body []byte, proxyURL *url.URL, tag string) (json.RawMessage, error) {
	httpClient := c.newHTTPClient(proxyURL)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s API request: %w", tag, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Printf("429 Too Many Requests for %s API, retrying after %v", tag, c.retryDelay)
			observability.RecordUpstreamRetry(tag)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &UpstreamError{Tag: tag, Status: resp.StatusCode}
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("%w for: %s", ErrRetriesExhausted, reqURL)
}
