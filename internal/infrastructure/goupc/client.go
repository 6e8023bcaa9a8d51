package goupc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/httpclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public go-upc endpoint
	DefaultBaseURL = "https://go-upc.com"

	lookupTimeout = 6 * time.Second
	maxBodyBytes  = 1 << 20
)

// codeResponse is the go-upc /api/v1/code payload
type codeResponse struct {
	Code    string `json:"code"`
	Product *struct {
		Name        string `json:"name"`
		Brand       string `json:"brand"`
		ImageURL    string `json:"imageUrl"`
		Description string `json:"description"`
	} `json:"product"`
}

// Client resolves barcodes against the go-upc product database.
// It implements domain.BarcodeLookup.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewClient creates a go-upc client. cache may be nil.
func NewClient(apiKey, baseURL string, cache domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:  httpclient.New(lookupTimeout),
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(2), 4),
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.Named("goupc"),
	}
}

// Lookup returns what go-upc knows about barcode
func (c *Client) Lookup(ctx context.Context, barcode string) (*domain.ProductInfo, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: go-upc key missing", domain.ErrProviderNotConfigured)
	}

	cacheKey := "goupc:" + barcode
	if c.cache != nil {
		var cached domain.ProductInfo
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v1/code/%s", c.baseURL, url.PathEscape(barcode))
	resp, err := httpclient.Get(ctx, c.httpClient, reqURL, httpclient.APIUserAgent, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Accept":        "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrProductNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: go-upc status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	body, _, err := httpclient.ReadLimited(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrProviderFailure, err)
	}

	var parsed codeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	if parsed.Product == nil || (strings.TrimSpace(parsed.Product.Name) == "" && strings.TrimSpace(parsed.Product.ImageURL) == "") {
		return nil, domain.ErrProductNotFound
	}

	info := &domain.ProductInfo{
		Barcode:   barcode,
		Name:      strings.TrimSpace(parsed.Product.Name),
		Brand:     strings.TrimSpace(parsed.Product.Brand),
		ImageURL:  strings.TrimSpace(parsed.Product.ImageURL),
		SourceURL: fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(barcode)),
	}

	c.logger.Debug("Barcode resolved",
		zap.String("barcode", barcode),
		zap.String("name", info.Name),
		zap.Bool("has_image", info.ImageURL != ""))

	if c.cache != nil && c.cacheTTL > 0 {
		_ = c.cache.Set(ctx, cacheKey, info, c.cacheTTL)
	}
	return info, nil
}
