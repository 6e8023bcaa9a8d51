package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/httpclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public SerpAPI endpoint
	DefaultBaseURL = "https://serpapi.com"

	searchTimeout = 8 * time.Second
	maxAttempts   = 3 // first try plus two retries
	maxBodyBytes  = 4 << 20
)

// Config holds SerpAPI client settings
type Config struct {
	APIKey        string
	BaseURL       string
	RatePerSecond float64
	Burst         int
	CacheTTL      time.Duration
}

// Client queries the SerpAPI Google engine for images and text snippets.
// It implements domain.ImageSearcher and domain.TextSearcher.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	backoffBase time.Duration
	logger      *zap.Logger
}

// NewClient creates a SerpAPI client. cache may be nil.
func NewClient(cfg Config, cache domain.CacheRepository, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  httpclient.New(searchTimeout),
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cache:       cache,
		cacheTTL:    cfg.CacheTTL,
		backoffBase: 500 * time.Millisecond,
		logger:      logger.Named("serpapi"),
	}
}

// SearchImages runs a Google Images search and returns results in rank order
func (c *Client) SearchImages(ctx context.Context, query domain.ImageQuery) ([]domain.ImageResult, error) {
	params := c.params(query.Query, query.Market)
	params.Set("tbm", "isch")

	resp, err := c.search(ctx, params)
	if err != nil {
		return nil, err
	}

	images := mapImages(resp.ImagesResults)
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images for %q", domain.ErrProductNotFound, query.Query)
	}
	return images, nil
}

// SearchText runs a Google web search and returns organic snippets and
// shopping descriptions
func (c *Client) SearchText(ctx context.Context, query domain.TextQuery) (*domain.TextSearchResult, error) {
	resp, err := c.search(ctx, c.params(query.Query, query.Market))
	if err != nil {
		return nil, err
	}

	result := mapText(resp)
	if len(result.OrganicSnippets) == 0 && len(result.ShoppingDescriptions) == 0 {
		return nil, fmt.Errorf("%w: no snippets for %q", domain.ErrProductNotFound, query.Query)
	}
	return result, nil
}

func (c *Client) params(q string, market domain.Market) url.Values {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q)
	if market.GL != "" {
		params.Set("gl", market.GL)
	}
	if hl := market.HL(); hl != "" {
		params.Set("hl", hl)
	}
	return params
}

// search executes one cached, rate-limited, retried request
func (c *Client) search(ctx context.Context, params url.Values) (*searchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: serpapi key missing", domain.ErrProviderNotConfigured)
	}

	// The key is excluded from the cache key
	cacheKey := "serpapi:" + params.Encode()
	if c.cache != nil {
		var cached searchResponse
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			c.logger.Debug("Cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := httpclient.Sleep(ctx, c.exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, retry, err := c.do(ctx, reqURL)
		if err == nil {
			if c.cache != nil && c.cacheTTL > 0 {
				if err := c.cache.Set(ctx, cacheKey, resp, c.cacheTTL); err != nil {
					c.logger.Debug("Cache set failed", zap.Error(err))
				}
			}
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("Search request failed",
			zap.Int("attempt", attempt),
			zap.Bool("retry", retry),
			zap.Error(err))
		if !retry {
			return nil, err
		}
	}

	return nil, lastErr
}

// do performs a single request. The bool reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, reqURL string) (*searchResponse, bool, error) {
	resp, err := httpclient.Get(ctx, c.httpClient, reqURL, httpclient.APIUserAgent, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	body, _, err := httpclient.ReadLimited(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrProviderFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: serpapi status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: serpapi status %d", domain.ErrProviderFailure, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("%w: serpapi status %d: %s", domain.ErrProviderFailure, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	// An "error" with a 200 means the search ran and found nothing
	if parsed.Error != "" && len(parsed.ImagesResults) == 0 && len(parsed.OrganicResults) == 0 {
		c.logger.Debug("Empty search", zap.String("reason", parsed.Error))
	}
	return &parsed, false, nil
}

// exponentialBackoff returns the delay before retry n (1-based)
func (c *Client) exponentialBackoff(n int) time.Duration {
	return httpclient.Backoff(c.backoffBase, n)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
