package serpapi

import (
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
)

// searchResponse is the subset of the SerpAPI Google engine response we read
type searchResponse struct {
	Error           string           `json:"error,omitempty"`
	ImagesResults   []imageResult    `json:"images_results"`
	OrganicResults  []organicResult  `json:"organic_results"`
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type imageResult struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Link      string `json:"link"`
	Title     string `json:"title"`
	Source    string `json:"source"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type shoppingResult struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Description string `json:"description"`
}

// mapImages keeps results that carry a full-size image URL, in rank order
func mapImages(results []imageResult) []domain.ImageResult {
	out := make([]domain.ImageResult, 0, len(results))
	for _, r := range results {
		original := strings.TrimSpace(r.Original)
		if original == "" {
			continue
		}
		out = append(out, domain.ImageResult{
			OriginalURL: original,
			LinkURL:     strings.TrimSpace(r.Link),
			Title:       strings.TrimSpace(r.Title),
		})
	}
	return out
}

// mapText collects non-empty organic snippets and shopping descriptions.
// A shopping result without a description falls back to its snippet.
func mapText(resp *searchResponse) *domain.TextSearchResult {
	result := &domain.TextSearchResult{}
	for _, r := range resp.OrganicResults {
		if s := strings.TrimSpace(r.Snippet); s != "" {
			result.OrganicSnippets = append(result.OrganicSnippets, s)
		}
	}
	for _, r := range resp.ShoppingResults {
		desc := strings.TrimSpace(r.Description)
		if desc == "" {
			desc = strings.TrimSpace(r.Snippet)
		}
		if desc != "" {
			result.ShoppingDescriptions = append(result.ShoppingDescriptions, desc)
		}
	}
	return result
}
