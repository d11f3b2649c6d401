// Package datacore downloads crew records from the DataCore structured
// JSON export.
package datacore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/pkg/logger"
)

// Client configuration defaults.
const (
	DefaultTimeout = 30 * time.Second
	maxErrorBody   = 1024
)

// Fetcher retrieves crew records. The pipeline depends on this interface so
// tests can substitute fixtures.
type Fetcher interface {
	FetchCrew(ctx context.Context, url string) ([]model.Crew, error)
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each download.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent request header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers callbacks for download duration and failures.
func WithObserver(onDone func(time.Duration), onError func(reason string)) Option {
	return func(c *Client) {
		if onDone != nil {
			c.onDone = onDone
		}
		if onError != nil {
			c.onError = onError
		}
	}
}

// Client is an HTTP Fetcher. It never retries.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    logger.Logger
	onDone    func(time.Duration)
	onError   func(string)
}

// NewClient creates a Client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		logger:  logger.Nop(),
		onDone:  func(time.Duration) {},
		onError: func(string) {},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchCrew downloads and decodes the crew array at url. Any failure is a
// *FetchError matching ErrFetch.
func (c *Client) FetchCrew(ctx context.Context, url string) ([]model.Crew, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	crew, err := c.fetch(ctx, url)
	elapsed := time.Since(start)
	c.onDone(elapsed)

	if err != nil {
		c.onError(err.Reason)
		c.logger.Error(ctx, "crew download failed",
			logger.String("url", url),
			logger.String("reason", err.Reason),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return nil, err
	}

	c.logger.Info(ctx, "crew downloaded",
		logger.String("url", url),
		logger.Int("crew", len(crew)),
		logger.Duration("elapsed", elapsed),
	)
	return crew, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]model.Crew, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonTransport, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonRead, Err: err}
	}

	var crew []model.Crew
	if err := json.Unmarshal(body, &crew); err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonDecode, Err: err}
	}
	return crew, nil
}
