package webpage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/httpclient"
	"go.uber.org/zap"
)

const (
	pageTimeout  = 8 * time.Second
	maxPageBytes = 2 << 20
)

// Fetcher downloads product pages as raw HTML.
// It implements domain.PageFetcher.
type Fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a page fetcher
func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		httpClient: httpclient.New(pageTimeout),
		logger:     logger.Named("webpage"),
	}
}

// Fetch returns at most 2 MiB of the page body. Non-HTML responses are rejected.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	resp, err := httpclient.Get(ctx, f.httpClient, pageURL, httpclient.BrowserUserAgent, map[string]string{
		"Accept":          "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5",
		"Accept-Language": "en;q=0.8,*;q=0.5",
	})
	if err != nil {
		return "", fmt.Errorf("%w: fetch page: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: page status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isTextual(ct) {
		return "", fmt.Errorf("%w: unexpected content type %q", domain.ErrProviderFailure, ct)
	}

	body, truncated, err := httpclient.ReadLimited(resp.Body, maxPageBytes)
	if err != nil {
		return "", fmt.Errorf("%w: read page: %v", domain.ErrProviderFailure, err)
	}
	if truncated {
		f.logger.Debug("Page body truncated", zap.String("url", pageURL))
	}

	return string(body), nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "html") || strings.Contains(ct, "xml")
}
