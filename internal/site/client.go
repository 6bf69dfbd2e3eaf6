package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the search endpoint of the Paris passport appointment service.
const DefaultURL = "https://teleservices.paris.fr/rdvtitres/jsp/site/Portal.jsp"

const maxResponseBodySize = 4 << 20 // 4MB

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 10
	defaultRetryDelay  = 2 * time.Second
)

// connection pooling limits, sized for a single host polled sequentially
const (
	defaultMaxIdleConns        = 4
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 90 * time.Second
)

// ErrRetriesExhausted is returned by [Client.Search] when every attempt
// failed with a transport error.
var ErrRetriesExhausted = errors.New("appointment search failed")

// transportError marks a failure below HTTP semantics (dial, timeout, read).
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// response is the raw outcome of one search request.
type response struct {
	Body       []byte
	StatusCode int
}

// Client searches the booking service for open slots.
//
// The underlying [http.Client] is created on the first search and reused
// for every later one. Client is meant to be driven by a single goroutine.
type Client struct {
	url         string
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger

	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithURL overrides the search endpoint.
func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithTimeout sets the per-request timeout. Defaults to 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxAttempts sets how many times a search is tried on transport errors.
// Defaults to 10.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// WithRetryDelay sets the fixed delay between two attempts. Defaults to 2s.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithLogger sets the logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient makes the client use hc instead of creating its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a [Client]. No connection is opened until the first search.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:         DefaultURL,
		timeout:     defaultTimeout,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	return c
}

// conn returns the HTTP client, creating it on first use.
func (c *Client) conn() *http.Client {
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			// no client timeout - each request carries its own deadline
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}
	return c.httpClient
}

// Search queries the service and returns the open slots, in page order.
//
// A 404 (unknown project) or 403 (corrections unavailable) answer is logged
// as a warning and yields no slots. Transport errors are retried with a
// fixed delay; once every attempt failed the returned error wraps
// [ErrRetriesExhausted]. Errors extracting slots from the page are returned
// as-is without retry.
func (c *Client) Search(ctx context.Context, q Query) ([]Slot, error) {
	form := q.Form().Encode()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.post(ctx, form)
		if err == nil {
			return c.handle(resp)
		}

		var te *transportError
		if !errors.As(err, &te) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		c.logger.Debug("failed attempt to get appointments",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"error", err.Error(),
		)
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.maxAttempts, lastErr)
}

func (c *Client) handle(resp response) ([]Slot, error) {
	switch resp.StatusCode {
	case http.StatusNotFound:
		c.logger.Warn("project not found", "status_code", resp.StatusCode)
		return nil, nil
	case http.StatusForbidden:
		c.logger.Warn("corrections unavailable for this project", "status_code", resp.StatusCode)
		return nil, nil
	}

	slots, err := ParseSlots(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("search completed", "status_code", resp.StatusCode, "slots", len(slots))
	return slots, nil
}

// post submits the encoded form with the per-request timeout.
func (c *Client) post(ctx context.Context, form string) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form))
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.conn().Do(req)
	if err != nil {
		return response{}, &transportError{err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return response{}, &transportError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return response{Body: body, StatusCode: resp.StatusCode}, nil
}

func (c *Client) wait(ctx context.Context) error {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close releases idle connections. Safe to call multiple times and on a nil
// Client. The client remains usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
