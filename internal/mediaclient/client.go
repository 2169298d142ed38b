// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

// Package mediaclient talks to the remote media service.
//
// Client performs GET {base}/media with the query built by the query
// package and classifies every failure as a *TransportError, *ServerError or
// *ParseError. CircuitBreakerClient wraps any MediaFetcher with a
// sony/gobreaker circuit breaker.
package mediaclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/geolens/internal/cache"
	"github.com/tomtom215/geolens/internal/logging"
	"github.com/tomtom215/geolens/internal/metrics"
	"github.com/tomtom215/geolens/internal/models"
	"github.com/tomtom215/geolens/internal/query"
)

const (
	// MediaPath is appended to the base URL.
	MediaPath = "/media"

	// BrowserWarningHeader suppresses the interstitial warning page some
	// tunnelling proxies put in front of development backends.
	BrowserWarningHeader = "ngrok-skip-browser-warning"

	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 64 << 20
	DefaultUserAgent        = "geolens/1.0"

	// errorBodyLimit caps how much of a non-2xx body is read for the detail.
	errorBodyLimit = 64 << 10
)

// MediaFetcher retrieves raw media records for a query.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, params query.Parameters) ([]models.RawMediaRecord, error)
}

var (
	_ MediaFetcher = (*Client)(nil)
	_ MediaFetcher = (*CircuitBreakerClient)(nil)
)

// Config configures a Client.
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	SkipBrowserWarning bool
	UserAgent          string
	MaxResponseBytes   int64

	// RateLimit is the sustained outbound request rate per second; 0 disables limiting.
	RateLimit float64
	RateBurst int

	// CacheTTL enables response caching keyed by the encoded query; 0 disables it.
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Client is the HTTP implementation of MediaFetcher.
type Client struct {
	mediaURL   string
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid media service base URL %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	c := &Client{
		mediaURL:   base + MediaPath,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.CacheTTL > 0 {
		var cacheOpts []cache.Option
		if cfg.CacheMaxEntries > 0 {
			cacheOpts = append(cacheOpts, cache.WithMaxEntries(cfg.CacheMaxEntries))
		}
		c.cache = cache.New("media", cfg.CacheTTL, cacheOpts...)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Cache returns the response cache, or nil when caching is disabled.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// FetchMedia issues GET {base}/media?{params} and returns the media list.
// An absent media field yields an empty, non-nil slice.
func (c *Client) FetchMedia(ctx context.Context, params query.Parameters) ([]models.RawMediaRecord, error) {
	encoded := params.Encode()
	log := logging.Ctx(ctx)

	var cacheKey string
	if c.cache != nil {
		cacheKey = cache.GenerateKey("media", encoded)
		if v, ok := c.cache.Get(cacheKey); ok {
			if recs, ok := v.([]models.RawMediaRecord); ok {
				log.Debug().Str("query", encoded).Int("records", len(recs)).Msg("media response served from cache")
				return slices.Clone(recs), nil
			}
		}
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	records, result, err := c.do(ctx, encoded)
	metrics.RecordMediaRequest(result, time.Since(start), len(records))
	if err != nil {
		log.Debug().Err(err).Str("query", encoded).Str("result", result).Msg("media request failed")
		return nil, err
	}

	log.Debug().
		Str("query", encoded).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("media request complete")

	if c.cache != nil {
		c.cache.Set(cacheKey, slices.Clone(records))
	}
	return records, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.MediaRateLimitWait.Observe(time.Since(start).Seconds())
	if err != nil {
		return &TransportError{Op: "rate limit wait", Err: err}
	}
	return nil
}

// do performs the request. result labels the outcome for metrics.
func (c *Client) do(ctx context.Context, encoded string) ([]models.RawMediaRecord, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.mediaURL+"?"+encoded, http.NoBody)
	if err != nil {
		return nil, "transport", &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.SkipBrowserWarning {
		req.Header.Set(BrowserWarningHeader, "true")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "transport", &TransportError{Op: "GET " + MediaPath, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result := "http_4xx"
		if resp.StatusCode >= 500 {
			result = "http_5xx"
		}
		return nil, result, &ServerError{StatusCode: resp.StatusCode, Detail: readErrorDetail(resp.Body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, "transport", &TransportError{Op: "read body", Err: err}
	}
	if int64(len(body)) > c.cfg.MaxResponseBytes {
		return nil, "parse", &ParseError{Err: fmt.Errorf("response exceeds %d bytes", c.cfg.MaxResponseBytes)}
	}

	var payload models.MediaResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "parse", &ParseError{Err: err}
	}
	if payload.Media == nil {
		payload.Media = []models.RawMediaRecord{}
	}
	return payload.Media, "ok", nil
}

// readErrorDetail extracts {"detail": ...} from an error body, or "".
func readErrorDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, errorBodyLimit))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.DetailMessage()
}

// IsCanceled reports whether err stems from the caller's context being
// canceled, which happens routinely when a newer fetch supersedes this one.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
