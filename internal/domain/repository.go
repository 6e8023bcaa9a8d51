package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching provider responses.
// Get decodes the stored value into dest and returns ErrCacheMiss when absent.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// BarcodeLookup defines the interface for the authoritative barcode database
type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (*ProductInfo, error)
}

// ImageSearcher defines the interface for image search providers
type ImageSearcher interface {
	SearchImages(ctx context.Context, query ImageQuery) ([]ImageResult, error)
}

// TextSearcher defines the interface for text/shopping search providers
type TextSearcher interface {
	SearchText(ctx context.Context, query TextQuery) (*TextSearchResult, error)
}

// PageFetcher retrieves the raw markup of a web page
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// ImageProber reads just enough of a remote image to report its dimensions
type ImageProber interface {
	Probe(ctx context.Context, imageURL string) (ImageDimensions, error)
}

// VisionExtractor reads the product facts directly off a product photo
type VisionExtractor interface {
	ExtractFromImage(ctx context.Context, imageURL string, lang Language) (*VisionResult, error)
}
