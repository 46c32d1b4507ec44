package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/storefront/backend/internal/domain"
)

const (
	maxAttempts       = 3
	maxResponseBytes  = 4 << 20
	maxErrorBodyBytes = 1024
	defaultBackoff    = 500 * time.Millisecond
)

// RequestRecorder receives the outcome of each upstream call
type RequestRecorder interface {
	RecordCatalogRequest(status string)
}

// ClientConfig holds settings for the remote catalog client
type ClientConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	RequestsPerHour int
}

// Client fetches configurable products from the upstream catalog API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	backoffBase time.Duration
	recorder    RequestRecorder
	log         zerolog.Logger
	debug       bool
}

// NewClient creates a new catalog API client
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: limiter,
		backoffBase: defaultBackoff,
		log:         log.With().Str("component", "catalog_client").Logger(),
	}
}

// SetDebug enables or disables per-attempt debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetRecorder attaches a metrics recorder for upstream calls
func (c *Client) SetRecorder(r RequestRecorder) {
	c.recorder = r
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		c.log.Debug().Msgf(format, args...)
	}
}

func (c *Client) record(status string) {
	if c.recorder != nil {
		c.recorder.RecordCatalogRequest(status)
	}
}

// exponentialBackoff returns base * 2^(attempt-1)
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Storefront/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}
	return resp, nil
}

// GetProduct fetches a configurable product by SKU
func (c *Client) GetProduct(ctx context.Context, sku string) (*domain.ConfigurableProduct, error) {
	if sku == "" {
		return nil, domain.ErrInvalidRequest
	}

	reqURL := fmt.Sprintf("%s/v1/products/%s", c.baseURL, url.PathEscape(sku))
	if _, err := url.Parse(reqURL); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, exponentialBackoff(c.backoffBase, attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				c.record("error")
				return nil, err
			}
			c.debugLog("request error (attempt %d): %v", attempt, err)
			lastErr = err
			continue
		}

		product, retry, err := c.handleResponse(resp, sku)
		if err == nil {
			c.record("ok")
			return product, nil
		}
		if !retry {
			c.record(statusLabel(err))
			return nil, err
		}
		c.debugLog("retryable failure (attempt %d): %v", attempt, err)
		lastErr = err
	}

	c.record("error")
	c.log.Warn().Str("sku", sku).Err(lastErr).Msg("all catalog retries failed")
	return nil, lastErr
}

// handleResponse decodes a response and reports whether a failure is retryable
func (c *Client) handleResponse(resp *http.Response, sku string) (*domain.ConfigurableProduct, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, domain.ErrProductNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		return nil, true, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogAPIFailure, resp.StatusCode, string(body))
	default:
		body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		return nil, false, fmt.Errorf("%w: status %d, body: %s", domain.ErrCatalogAPIFailure, resp.StatusCode, string(body))
	}

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}

	var doc ProductDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if doc.SKU == "" {
		doc.SKU = sku
	}

	return ToDomainProduct(&doc), false, nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func statusLabel(err error) string {
	if errors.Is(err, domain.ErrProductNotFound) {
		return "not_found"
	}
	return "error"
}
