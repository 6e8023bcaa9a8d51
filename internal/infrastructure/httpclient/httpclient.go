package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrowserUserAgent is sent to retail sites and image hosts, which often
// refuse unknown agents
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// APIUserAgent identifies this service to keyed JSON APIs
const APIUserAgent = "DataHunter/1.0"

// New returns an http.Client with the given overall timeout
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get issues a GET with the given user agent and extra headers
func Get(ctx context.Context, client *http.Client, url, userAgent string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return client.Do(req)
}

// ReadLimited reads at most limit bytes from r. The second result reports
// whether the body was longer than limit.
func ReadLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// Backoff returns the exponential delay before retry attempt n (1-based)
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
