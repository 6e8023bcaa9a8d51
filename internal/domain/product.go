package domain

// ProductInfo represents what the barcode database knows about a product
type ProductInfo struct {
	Barcode   string `json:"barcode"`
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// CandidateImage is a possible product photo found during image location.
// It only lives for the duration of one cascade run.
type CandidateImage struct {
	URL           string `json:"url"`
	SourcePageURL string `json:"sourcePageUrl"`
	Title         string `json:"title,omitempty"`
	Validated     bool   `json:"validated"`
}

// LocateResult is the outcome of the image cascade
type LocateResult struct {
	Found         bool   `json:"found"`
	URL           string `json:"url,omitempty"`
	SourcePageURL string `json:"sourcePageUrl,omitempty"`
	ProductName   string `json:"productName,omitempty"`
	Strategy      string `json:"strategy,omitempty"` // name of the strategy that produced the image
}

// ImageDimensions holds the pixel size reported by an image header
type ImageDimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
}

// ImageQuery represents an image search request
type ImageQuery struct {
	Query  string
	Market Market
}

// ImageResult is a single entry returned by an image search provider
type ImageResult struct {
	OriginalURL string `json:"original"`
	LinkURL     string `json:"link"`
	Title       string `json:"title"`
}

// TextQuery represents a text or shopping search request
type TextQuery struct {
	Query  string
	Market Market
}

// TextSearchResult holds the snippet-bearing parts of a text search response
type TextSearchResult struct {
	OrganicSnippets      []string `json:"organicSnippets"`
	ShoppingDescriptions []string `json:"shoppingDescriptions"`
}

// VisionResult is what the vision model returns for a product photo
type VisionResult struct {
	ProductName string          `json:"productName"`
	Fields      ExtractedFields `json:"fields"`
}
