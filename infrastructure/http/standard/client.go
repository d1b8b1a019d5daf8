// ABOUTME: Standard HTTP client implementation with retry, backoff and rate limiting
// ABOUTME: Retries transient search API failures with exponential backoff before giving up

package standard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"adtracker/core/interfaces"
)

const (
	// DefaultTimeout bounds a single request attempt
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retries after the first attempt
	DefaultMaxRetries = 2

	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second

	// maxErrorBody caps how much of a failed response is buffered between retries
	maxErrorBody = 64 * 1024

	userAgent = "adtracker/1.0"
)

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client          *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	limiter         *rate.Limiter
}

// Option configures a StandardHTTPClient
type Option func(*StandardHTTPClient)

// WithMaxRetries sets the number of retries after the first attempt
func WithMaxRetries(n uint64) Option {
	return func(c *StandardHTTPClient) {
		c.maxRetries = n
	}
}

// WithBackoff sets the exponential backoff bounds
func WithBackoff(initial, max time.Duration) Option {
	return func(c *StandardHTTPClient) {
		c.initialInterval = initial
		c.maxInterval = max
	}
}

// WithRateLimit limits request attempts to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *StandardHTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified per-attempt timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries:      DefaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusError marks a response status worth retrying (429 and 5xx)
type retryableStatusError struct {
	statusCode int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("server returned %d", e.statusCode)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Get performs an HTTP GET request. Network errors, 429 and 5xx responses are
// retried; when retries run out on a bad status the last response is returned
// so the caller can inspect its body.
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	// validate once so a malformed URL is not retried
	checked, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if checked.URL.Scheme != "http" && checked.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", checked.URL.Scheme)
	}

	var result *httpResponse
	var lastStatus *httpResponse

	op := func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}

		if isRetryableStatus(resp.StatusCode) {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			lastStatus = &httpResponse{
				statusCode: resp.StatusCode,
				body:       io.NopCloser(bytes.NewReader(body)),
				headers:    resp.Header,
			}
			return &retryableStatusError{statusCode: resp.StatusCode}
		}

		result = &httpResponse{
			statusCode: resp.StatusCode,
			body:       resp.Body,
			headers:    resp.Header,
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		var statusErr *retryableStatusError
		if errors.As(err, &statusErr) && lastStatus != nil {
			return lastStatus, nil
		}
		return nil, err
	}

	return result, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
