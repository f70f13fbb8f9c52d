// SPDX-FileCopyrightText: 2025 The Appscout Authors
// SPDX-License-Identifier: EUPL-1.2

// Package itunes implements domain.SearchService over the App Store search API.
package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/janderssonse/appscout/internal/domain"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the public App Store search endpoint host.
	DefaultBaseURL = "https://itunes.apple.com"
	searchPath     = "/search"
	userAgent      = "appscout/1.0"
)

// Config captures the knobs of the search client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	CacheSize int
	CacheTTL  time.Duration

	Retry RetryConfig

	// Circuit breaker settings
	BreakerFailures uint32
	BreakerTimeout  time.Duration

	Logger zerolog.Logger
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         domain.DefaultHTTPTimeout,
		CacheSize:       128,
		CacheTTL:        5 * time.Minute,
		Retry:           DefaultRetryConfig(),
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		Logger:          zerolog.Nop(),
	}
}

// Client implements domain.SearchService.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	cache   *lru.Cache
	cfg     Config
	logger  zerolog.Logger
	now     func() time.Time
}

var _ domain.SearchService = (*Client)(nil)

type cacheEntry struct {
	results []domain.SearchResult
	stored  time.Time
}

// NewClient wires the HTTP client, cache and circuit breaker.
func NewClient(cfg Config) (*Client, error) {
	defaults := DefaultConfig()

	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaults.BaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaults.CacheSize
	}

	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}

	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = defaults.Retry
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetTransport(&http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		})

	logger := cfg.Logger.With().Str("component", "itunes").Logger()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "itunes-search",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			// Cancellation and client errors say nothing about service health.
			return err == nil || errors.Is(err, context.Canceled) || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Search queries the storefront of query.Country for apps of query.Entity.
// Identical queries inside the cache TTL are answered from memory.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query.Term) == "" {
		return nil, domain.ErrEmptyTerm
	}

	key := cacheKey(query)
	if results, ok := c.cached(key); ok {
		c.logger.Debug().Str("term", query.Term).Str("country", string(query.Country)).Msg("search cache hit")

		return results, nil
	}

	results, err := WithRetry(ctx, c.cfg.Retry, c.logger, "search", func() ([]domain.SearchResult, error) {
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return c.fetch(ctx, query)
		})
		if err != nil {
			return nil, err
		}

		results, _ := out.([]domain.SearchResult)

		return results, nil
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	c.cache.Add(key, cacheEntry{results: results, stored: c.now()})

	return cloneResults(results), nil
}

func (c *Client) cached(key string) ([]domain.SearchResult, bool) {
	if c.cfg.CacheTTL <= 0 {
		return nil, false
	}

	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	entry, ok := value.(cacheEntry)
	if !ok || c.now().Sub(entry.stored) > c.cfg.CacheTTL {
		c.cache.Remove(key)

		return nil, false
	}

	return cloneResults(entry.results), true
}

func (c *Client) fetch(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	params := map[string]string{
		"term":    query.Term,
		"country": strings.ToLower(string(query.Country)),
		"entity":  query.Entity.APIValue(),
		"media":   "software",
	}

	if query.Limit > 0 {
		params["limit"] = strconv.Itoa(query.Limit)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}

	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode()}
	}

	// The API answers with text/javascript, so decode by hand.
	var payload searchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidResponse, err)
	}

	results := make([]domain.SearchResult, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.TrackID == 0 {
			continue
		}

		results = append(results, item.toDomain())
	}

	c.logger.Debug().
		Str("term", query.Term).
		Str("country", string(query.Country)).
		Str("entity", string(query.Entity)).
		Int("results", len(results)).
		Msg("search completed")

	return results, nil
}

func (c *Client) wrapError(err error) error {
	searchErr := &domain.SearchError{Op: "search", Err: err}

	var statusErr *StatusError

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		searchErr.Err = fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		searchErr.Message = "The App Store search service is unavailable"
	case errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests:
		searchErr.Message = "Too many searches, wait a moment and try again"
	case errors.As(err, &statusErr) && statusErr.Code >= http.StatusInternalServerError:
		searchErr.Err = fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		searchErr.Message = "The App Store search service is unavailable"
	case errors.As(err, &statusErr):
		searchErr.Message = fmt.Sprintf("The App Store rejected the search (status %d)", statusErr.Code)
	case errors.Is(err, domain.ErrNetworkFailure), errors.Is(err, context.DeadlineExceeded):
		searchErr.Message = "Network connection failed"
	case errors.Is(err, domain.ErrInvalidResponse):
		searchErr.Message = "The search service returned an unexpected response"
	default:
		searchErr.Message = domain.UserMessage(err)
	}

	return searchErr
}

// StatusError is a non-2xx answer from the search API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search API returned status %d", e.Code)
}

func isClientError(err error) bool {
	var statusErr *StatusError

	return errors.As(err, &statusErr) &&
		statusErr.Code >= http.StatusBadRequest &&
		statusErr.Code < http.StatusInternalServerError &&
		statusErr.Code != http.StatusTooManyRequests
}

func cacheKey(query domain.SearchQuery) string {
	return strings.Join([]string{
		strings.ToLower(query.Term),
		string(query.Country),
		string(query.Entity),
		strconv.Itoa(query.Limit),
	}, "\x00")
}

func cloneResults(results []domain.SearchResult) []domain.SearchResult {
	out := make([]domain.SearchResult, len(results))
	copy(out, results)

	return out
}

type searchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []searchItem `json:"results"`
}

type searchItem struct {
	TrackID           int64   `json:"trackId"`
	TrackName         string  `json:"trackName"`
	ArtistName        string  `json:"artistName"`
	ArtworkURL512     string  `json:"artworkUrl512"`
	ArtworkURL100     string  `json:"artworkUrl100"`
	ArtworkURL60      string  `json:"artworkUrl60"`
	FormattedPrice    *string `json:"formattedPrice"`
	PrimaryGenreName  string  `json:"primaryGenreName"`
	AverageUserRating float64 `json:"averageUserRating"`
	UserRatingCount   int     `json:"userRatingCount"`
	BundleID          string  `json:"bundleId"`
	Version           string  `json:"version"`
	TrackViewURL      string  `json:"trackViewUrl"`
}

func (i searchItem) toDomain() domain.SearchResult {
	artwork := i.ArtworkURL512
	if artwork == "" {
		artwork = i.ArtworkURL100
	}

	if artwork == "" {
		artwork = i.ArtworkURL60
	}

	var formattedPrice *string
	if i.FormattedPrice != nil && strings.TrimSpace(*i.FormattedPrice) != "" {
		price := *i.FormattedPrice
		formattedPrice = &price
	}

	return domain.SearchResult{
		ID:                i.TrackID,
		Name:              i.TrackName,
		ArtistName:        i.ArtistName,
		ArtworkURL:        artwork,
		FormattedPrice:    formattedPrice,
		PrimaryGenreName:  i.PrimaryGenreName,
		AverageUserRating: i.AverageUserRating,
		UserRatingCount:   i.UserRatingCount,
		BundleID:          i.BundleID,
		Version:           i.Version,
		TrackViewURL:      i.TrackViewURL,
	}
}
