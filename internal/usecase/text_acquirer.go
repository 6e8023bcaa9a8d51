package usecase

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/extraction"
	"go.uber.org/zap"
)

// DefaultMaxSnippets is how many organic snippets feed a query-mode blob
const DefaultMaxSnippets = 5

// boilerplateSelector matches elements that never hold label text
const boilerplateSelector = "script, style, noscript, nav, footer, header, iframe, svg, form"

// AcquirerConfig holds blob limits
type AcquirerConfig struct {
	MaxBlobLength int
	MaxSnippets   int
}

// TextAcquirer turns a product page or a text search into a raw text blob
type TextAcquirer struct {
	fetcher  domain.PageFetcher
	searcher domain.TextSearcher
	config   AcquirerConfig
	logger   *zap.Logger
}

// NewTextAcquirer creates an acquirer. fetcher and searcher may be nil.
func NewTextAcquirer(fetcher domain.PageFetcher, searcher domain.TextSearcher, config AcquirerConfig, logger *zap.Logger) *TextAcquirer {
	if config.MaxBlobLength <= 0 {
		config.MaxBlobLength = extraction.MaxBlobLength
	}
	if config.MaxSnippets <= 0 {
		config.MaxSnippets = DefaultMaxSnippets
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextAcquirer{fetcher: fetcher, searcher: searcher, config: config, logger: logger}
}

// FromPage fetches pageURL and returns its visible text. Failures give "".
func (a *TextAcquirer) FromPage(ctx context.Context, pageURL string) string {
	if a.fetcher == nil || domain.IsSentinel(pageURL) {
		return ""
	}

	html, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		a.logger.Debug("Page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}

	text, err := visibleText(html)
	if err != nil {
		a.logger.Debug("Page parse failed", zap.String("url", pageURL), zap.Error(err))
		return ""
	}

	return extraction.Blob(text, a.config.MaxBlobLength)
}

// FromQuery runs a text search and joins the top organic snippets with the
// top shopping description. Failures give "".
func (a *TextAcquirer) FromQuery(ctx context.Context, query string, market domain.Market) string {
	if a.searcher == nil || strings.TrimSpace(query) == "" {
		return ""
	}

	result, err := a.searcher.SearchText(ctx, domain.TextQuery{Query: query, Market: market})
	if err != nil || result == nil {
		a.logger.Debug("Text search failed", zap.String("query", query), zap.Error(err))
		return ""
	}

	snippets := result.OrganicSnippets
	if len(snippets) > a.config.MaxSnippets {
		snippets = snippets[:a.config.MaxSnippets]
	}
	parts := append([]string{}, snippets...)
	if len(result.ShoppingDescriptions) > 0 {
		parts = append(parts, result.ShoppingDescriptions[0])
	}

	return extraction.Blob(strings.Join(parts, " "), a.config.MaxBlobLength)
}

// visibleText strips boilerplate elements and returns the remaining text.
// Block elements are separated by spaces so adjacent cells do not fuse.
func visibleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find(boilerplateSelector).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				sb.WriteString(c.Text())
				sb.WriteByte(' ')
				return
			}
			walk(c)
		})
	}
	walk(root)

	return sb.String(), nil
}
