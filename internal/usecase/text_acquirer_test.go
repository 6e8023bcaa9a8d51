package usecase

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html>
<head><title>Keks</title><style>.x{color:red}</style></head>
<body>
  <header>Shop Navigation</header>
  <nav><a href="/">Home</a></nav>
  <script>var tracking = "Zutaten: nope";</script>
  <div class="product">
    <h1>Butterkeks</h1>
    <p>Zutaten:<b>Weizenmehl</b>, Zucker, Butter</p>
    <table><tr><td>Energie</td><td>1900kJ</td></tr></table>
  </div>
  <footer>Impressum</footer>
</body>
</html>`

func TestTextAcquirer_FromPage(t *testing.T) {
	fetcher := &MockPageFetcher{pages: map[string]string{"https://shop.example/keks": productPage}}
	acquirer := NewTextAcquirer(fetcher, nil, AcquirerConfig{}, nil)

	blob := acquirer.FromPage(context.Background(), "https://shop.example/keks")

	assert.Contains(t, blob, "Butterkeks")
	assert.Contains(t, blob, "Zutaten: Weizenmehl , Zucker, Butter")
	assert.Contains(t, blob, "Energie 1900kJ")
	assert.NotContains(t, blob, "tracking")
	assert.NotContains(t, blob, "Shop Navigation")
	assert.NotContains(t, blob, "Impressum")
	assert.NotContains(t, blob, "color:red")
	assert.NotContains(t, blob, "  ", "whitespace is collapsed")
}

func TestTextAcquirer_FromPage_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *MockPageFetcher
		url     string
	}{
		{"sentinel url", &MockPageFetcher{}, domain.Sentinel},
		{"empty url", &MockPageFetcher{}, ""},
		{"fetch error", &MockPageFetcher{err: domain.ErrProviderFailure}, "https://shop.example/keks"},
		{"unknown page", &MockPageFetcher{pages: map[string]string{}}, "https://shop.example/keks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acquirer := NewTextAcquirer(tt.fetcher, nil, AcquirerConfig{}, nil)
			assert.Empty(t, acquirer.FromPage(context.Background(), tt.url))
		})
	}

	t.Run("sentinel url is never fetched", func(t *testing.T) {
		fetcher := &MockPageFetcher{}
		NewTextAcquirer(fetcher, nil, AcquirerConfig{}, nil).FromPage(context.Background(), domain.Sentinel)
		assert.Empty(t, fetcher.fetched)
	})
}

func TestTextAcquirer_FromPage_BoundsBlob(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("Zucker ", 2000) + "</p></body></html>"
	fetcher := &MockPageFetcher{pages: map[string]string{"https://shop.example/long": page}}
	acquirer := NewTextAcquirer(fetcher, nil, AcquirerConfig{MaxBlobLength: 100}, nil)

	blob := acquirer.FromPage(context.Background(), "https://shop.example/long")

	assert.LessOrEqual(t, utf8.RuneCountInString(blob), 100)
	assert.True(t, strings.HasPrefix(blob, "Zucker Zucker"))
}

func TestTextAcquirer_FromQuery(t *testing.T) {
	searcher := &MockTextSearcher{result: &domain.TextSearchResult{
		OrganicSnippets: []string{
			"Zutaten: Zucker, Mehl",
			"Energie 1500kJ",
			"third", "fourth", "fifth", "sixth",
		},
		ShoppingDescriptions: []string{"Butterkeks 200g", "ignored"},
	}}
	acquirer := NewTextAcquirer(nil, searcher, AcquirerConfig{}, nil)
	market := domain.LookupMarket("DE")

	blob := acquirer.FromQuery(context.Background(), `"4006381333931" Zutaten Nährwerte`, market)

	assert.Equal(t, "Zutaten: Zucker, Mehl Energie 1500kJ third fourth fifth Butterkeks 200g", blob)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, market, searcher.queries[0].Market)
}

func TestTextAcquirer_FromQuery_SnippetLimit(t *testing.T) {
	searcher := &MockTextSearcher{result: &domain.TextSearchResult{
		OrganicSnippets: []string{"one", "two", "three"},
	}}
	acquirer := NewTextAcquirer(nil, searcher, AcquirerConfig{MaxSnippets: 2}, nil)

	blob := acquirer.FromQuery(context.Background(), "q", domain.DefaultMarket)

	assert.Equal(t, "one two", blob)
}

func TestTextAcquirer_FromQuery_Failures(t *testing.T) {
	t.Run("search error", func(t *testing.T) {
		acquirer := NewTextAcquirer(nil, &MockTextSearcher{err: domain.ErrRateLimited}, AcquirerConfig{}, nil)
		assert.Empty(t, acquirer.FromQuery(context.Background(), "q", domain.DefaultMarket))
	})

	t.Run("blank query is not searched", func(t *testing.T) {
		searcher := &MockTextSearcher{}
		acquirer := NewTextAcquirer(nil, searcher, AcquirerConfig{}, nil)
		assert.Empty(t, acquirer.FromQuery(context.Background(), "   ", domain.DefaultMarket))
		assert.Empty(t, searcher.queries)
	})

	t.Run("no searcher", func(t *testing.T) {
		acquirer := NewTextAcquirer(nil, nil, AcquirerConfig{}, nil)
		assert.Empty(t, acquirer.FromQuery(context.Background(), "q", domain.DefaultMarket))
	})
}
