package usecase

import (
	"context"
	"sync"

	"github.com/macrolens/datahunter/internal/domain"
)

// MockImageProber is a mock implementation of domain.ImageProber
type MockImageProber struct {
	mu     sync.Mutex
	dims   map[string]domain.ImageDimensions
	err    error
	probed []string
}

func NewMockImageProber() *MockImageProber {
	return &MockImageProber{dims: make(map[string]domain.ImageDimensions)}
}

func (m *MockImageProber) with(url string, width, height int) *MockImageProber {
	m.dims[url] = domain.ImageDimensions{Width: width, Height: height, Format: "jpeg"}
	return m
}

func (m *MockImageProber) Probe(ctx context.Context, url string) (domain.ImageDimensions, error) {
	m.mu.Lock()
	m.probed = append(m.probed, url)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.ImageDimensions{}, err
	}
	if m.err != nil {
		return domain.ImageDimensions{}, m.err
	}
	d, ok := m.dims[url]
	if !ok {
		return domain.ImageDimensions{}, domain.ErrImageRejected
	}
	return d, nil
}

// MockBarcodeLookup is a mock implementation of domain.BarcodeLookup
type MockBarcodeLookup struct {
	info  *domain.ProductInfo
	err   error
	calls int
}

func (m *MockBarcodeLookup) Lookup(ctx context.Context, barcode string) (*domain.ProductInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.info == nil {
		return nil, domain.ErrProductNotFound
	}
	return m.info, nil
}

// MockImageSearcher is a mock implementation of domain.ImageSearcher.
// Results are keyed by the exact query; unknown queries find nothing.
type MockImageSearcher struct {
	results  map[string][]domain.ImageResult
	fallback []domain.ImageResult
	queries  []string
}

func NewMockImageSearcher() *MockImageSearcher {
	return &MockImageSearcher{results: make(map[string][]domain.ImageResult)}
}

func (m *MockImageSearcher) SearchImages(ctx context.Context, q domain.ImageQuery) ([]domain.ImageResult, error) {
	m.queries = append(m.queries, q.Query)
	if r, ok := m.results[q.Query]; ok {
		return r, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, domain.ErrProductNotFound
}

// MockTextSearcher is a mock implementation of domain.TextSearcher
type MockTextSearcher struct {
	result  *domain.TextSearchResult
	err     error
	queries []domain.TextQuery
}

func (m *MockTextSearcher) SearchText(ctx context.Context, q domain.TextQuery) (*domain.TextSearchResult, error) {
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, domain.ErrProductNotFound
	}
	return m.result, nil
}

// MockPageFetcher is a mock implementation of domain.PageFetcher
type MockPageFetcher struct {
	pages   map[string]string
	err     error
	fetched []string
}

func (m *MockPageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.fetched = append(m.fetched, url)
	if m.err != nil {
		return "", m.err
	}
	html, ok := m.pages[url]
	if !ok {
		return "", domain.ErrProviderFailure
	}
	return html, nil
}

// MockVisionExtractor is a mock implementation of domain.VisionExtractor
type MockVisionExtractor struct {
	result *domain.VisionResult
	err    error
	calls  int
	panics bool
}

func (m *MockVisionExtractor) ExtractFromImage(ctx context.Context, url string, lang domain.Language) (*domain.VisionResult, error) {
	m.calls++
	if m.panics {
		panic("vision model exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
