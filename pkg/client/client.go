// Package client provides the HTTP fetch capability for feed walking,
// with per-host politeness, page caching, retries and error handling.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FashtimeDotCom/feedwalk/pkg/cache"
	"github.com/FashtimeDotCom/feedwalk/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedwalk_requests_total",
		Help: "Total page requests by host and status",
	}, []string{"host", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedwalk_request_duration_seconds",
		Help:    "Page request duration in seconds by host",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"host"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedwalk_errors_total",
		Help: "Total fetch errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client fetches feed pages over HTTP.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	limiter    *ratelimit.Tracker
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for the shared page cache and politeness state.
	// Optional: nil disables both, leaving a plain fetching client.
	Redis *redis.Client

	// User-Agent header sent with every request. Required; feed
	// operators block anonymous pollers.
	UserAgent string

	// MinRequestInterval paces successive requests to the same host.
	// 0 disables pacing. Retry-After windows are always honored.
	MinRequestInterval time.Duration

	// Timeout bounds a single page request.
	Timeout time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redis *redis.Client, userAgent string) Config {
	return Config{
		Redis:              redis,
		UserAgent:          userAgent,
		MinRequestInterval: 0,
		Timeout:            30 * time.Second,
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
	}
}

// New creates a feed page client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "feedwalk-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	} else {
		logger.Warn().Msg("No Redis configured - page cache and shared politeness state disabled")
	}

	limiter := ratelimit.NewTracker(cfg.Redis, cfg.MinRequestInterval, logger)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:   cacheManager,
		limiter: limiter,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Do performs a page request with politeness gating, caching and retry.
// Fresh cached pages are served without touching the network; stale
// pages with validators are revalidated conditionally.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	host := req.URL.Host
	pageURL := req.URL.String()

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(host).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Cache lookup
	var cachedEntry *cache.Entry
	cacheKey := cache.Key{URL: pageURL}
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("url", pageURL).Msg("Cache get error")
		}
		cachedEntry = entry

		if cachedEntry != nil && cachedEntry.IsFresh() {
			c.logger.Debug().Str("url", pageURL).Msg("Serving page from cache")
			requestsTotal.WithLabelValues(host, "cached").Inc()
			return cache.EntryToResponse(cachedEntry), nil
		}
	}

	// Step 2: Politeness gate
	allowed, err := c.limiter.ShouldAllowRequest(ctx, host)
	if err != nil {
		c.logger.Error().Err(err).Msg("Politeness check failed")
		return nil, fmt.Errorf("politeness check: %w", err)
	}
	if !allowed {
		c.logger.Warn().
			Str("url", pageURL).
			Msg("Request blocked by Retry-After window")
		requestsTotal.WithLabelValues(host, "blocked").Inc()
		return nil, fmt.Errorf("%w: %s", ErrHostBlocked, host)
	}

	// Step 3: Conditional request when a stale entry has validators
	if cachedEntry != nil && cachedEntry.HasValidators() {
		cache.AddValidators(req, cachedEntry)
		cache.ConditionalRequests.Inc()
		c.logger.Debug().
			Str("url", pageURL).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/atom+xml, application/xml;q=0.9, text/xml;q=0.8")

	// Step 4: Execute with retry
	c.logger.Debug().
		Str("url", pageURL).
		Str("method", req.Method).
		Msg("Fetching page")

	var resp *http.Response
	var errClass ErrorClass

	retryErr := retryWithBackoff(ctx, func() error {
		var reqErr error
		resp, reqErr = c.httpClient.Do(req)

		if reqErr != nil {
			c.logger.Error().Err(reqErr).Str("url", pageURL).Msg("HTTP request failed")
			errClass = c.classifyError(nil, reqErr)
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(host, "network_error").Inc()
			return reqErr
		}

		if err := c.limiter.UpdateFromResponse(ctx, host, resp.StatusCode, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record politeness state")
		}

		// 304 Not Modified is a success, the cached page is current
		if resp.StatusCode == http.StatusNotModified {
			return nil
		}

		if resp.StatusCode >= 400 {
			errClass = c.classifyError(resp, nil)
			errorsTotal.WithLabelValues(string(errClass)).Inc()
			requestsTotal.WithLabelValues(host, fmt.Sprintf("%d", resp.StatusCode)).Inc()

			c.logger.Warn().
				Str("url", pageURL).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Page request error")

			if shouldRetry(errClass) {
				lastErr := &FetchError{
					URL:        pageURL,
					StatusCode: resp.StatusCode,
					ErrorClass: errClass,
					Message:    resp.Status,
				}
				resp.Body.Close() // Close the body before retrying
				return lastErr
			}

			// Don't retry client errors - return success (let caller handle status)
			return nil
		}

		requestsTotal.WithLabelValues(host, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return nil
	}, func(err error) ErrorClass {
		return errClass
	})

	if retryErr != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, retryErr
	}

	// Step 5: 304 Not Modified - serve and refresh the cached page
	if resp.StatusCode == http.StatusNotModified {
		c.logger.Debug().Str("url", pageURL).Msg("304 Not Modified - using cache")
		requestsTotal.WithLabelValues(host, "304").Inc()
		cache.Revalidations.Inc()

		if c.cache != nil && cachedEntry != nil {
			if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
				if newExpires, err := http.ParseTime(expiresStr); err == nil {
					if err := c.cache.Refresh(ctx, cacheKey, newExpires); err != nil {
						c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
					}
				}
			}
			resp.Body.Close()
			return cache.EntryToResponse(cachedEntry), nil
		}

		resp.Body.Close()
		return nil, fmt.Errorf("304 response without cached page for %s", pageURL)
	}

	// Step 6: Store successful responses
	if resp.StatusCode == http.StatusOK && c.cache != nil {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if entry.TTL() > 0 || entry.HasValidators() {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache page")
			} else {
				c.logger.Debug().
					Str("url", pageURL).
					Dur("ttl", entry.TTL()).
					Msg("Cached page")
			}
		}
	}

	return resp, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Get performs a GET request for a page URL.
func (c *Client) Get(ctx context.Context, pageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
