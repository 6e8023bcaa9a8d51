package imageprobe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF header decoder
	_ "image/jpeg" // register JPEG header decoder
	_ "image/png"  // register PNG header decoder
	"net/http"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/httpclient"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // register WebP header decoder
)

const (
	probeTimeout = 5 * time.Second
	// Image headers sit in the first few KB, but JPEGs with large EXIF
	// blocks push the frame header further in
	headerBytes = 64 << 10
)

// Prober reads the header of a remote image to learn its dimensions.
// It implements domain.ImageProber.
type Prober struct {
	httpClient *http.Client
	cache      domain.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewProber creates a prober. cache may be nil.
func NewProber(cache domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		httpClient: httpclient.New(probeTimeout),
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("imageprobe"),
	}
}

// Probe fetches at most the first 64 KiB of imageURL and decodes the header
func (p *Prober) Probe(ctx context.Context, imageURL string) (domain.ImageDimensions, error) {
	cacheKey := "probe:" + imageURL
	if p.cache != nil {
		var cached domain.ImageDimensions
		if err := p.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	resp, err := httpclient.Get(ctx, p.httpClient, imageURL, httpclient.BrowserUserAgent, map[string]string{
		"Range":  fmt.Sprintf("bytes=0-%d", headerBytes-1),
		"Accept": "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8",
	})
	if err != nil {
		return domain.ImageDimensions{}, fmt.Errorf("%w: %v", domain.ErrImageRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return domain.ImageDimensions{}, fmt.Errorf("%w: status %d", domain.ErrImageRejected, resp.StatusCode)
	}

	// Servers that ignore Range still only get read up to the limit
	header, _, err := httpclient.ReadLimited(resp.Body, headerBytes)
	if err != nil {
		return domain.ImageDimensions{}, fmt.Errorf("%w: read: %v", domain.ErrImageRejected, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(header))
	if err != nil {
		return domain.ImageDimensions{}, fmt.Errorf("%w: decode header: %v", domain.ErrImageRejected, err)
	}

	dims := domain.ImageDimensions{Width: cfg.Width, Height: cfg.Height, Format: format}
	p.logger.Debug("Probed image",
		zap.String("url", imageURL),
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height),
		zap.String("format", format))

	if p.cache != nil && p.cacheTTL > 0 {
		_ = p.cache.Set(ctx, cacheKey, dims, p.cacheTTL)
	}
	return dims, nil
}
