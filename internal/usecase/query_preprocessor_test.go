package usecase

import (
	"strings"
	"testing"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeProductName(t *testing.T) {
	testCases := []struct {
		name        string
		productName string
		want        string
	}{
		{
			name:        "removes size in fl oz",
			productName: "Coca-Cola, 12 fl oz",
			want:        "coca cola",
		},
		{
			name:        "removes metric weight",
			productName: "Milka Alpenmilch 100g",
			want:        "milka alpenmilch",
		},
		{
			name:        "removes multipack and folds umlauts",
			productName: "Müller Müllermilch Schoko 6 x 400 ml",
			want:        "muller mullermilch schoko",
		},
		{
			name:        "drops noise words",
			productName: "The New Bio Haferflocken",
			want:        "haferflocken",
		},
		{
			name:        "size only gives empty",
			productName: "500 g",
			want:        "",
		},
		{
			name:        "empty input",
			productName: "",
			want:        "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeProductName(tc.productName)
			if got != tc.want {
				t.Errorf("SanitizeProductName(%q) = %q, want %q", tc.productName, got, tc.want)
			}
		})
	}
}

func TestSanitizeProductName_CapsLength(t *testing.T) {
	got := SanitizeProductName(strings.Repeat("abcdefghi ", 20))

	assert.LessOrEqual(t, len(got), maxNameQueryLength)
	assert.False(t, strings.HasSuffix(got, " "))
	assert.True(t, strings.HasPrefix(got, "abcdefghi abcdefghi"))
}

func TestBrandKeyword(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"first word", "Milka Alpenmilch 100g", "milka"},
		{"diacritics are folded", "Ültje Erdnüsse", "ultje"},
		{"skips noise words", "The Original Pringles", "original"},
		{"skips numbers and single letters", "7 Up", "up"},
		{"empty", "", ""},
		{"only noise", "Bio Pack", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BrandKeyword(tc.in); got != tc.want {
				t.Errorf("BrandKeyword(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestBanOperators(t *testing.T) {
	got := banOperators([]string{"openfoodfacts.org", "eBay.", "  "})
	assert.Equal(t, "-site:openfoodfacts.org -site:ebay.*", got)
	assert.Empty(t, banOperators(nil))
}

func TestQueryBuilder(t *testing.T) {
	b := NewQueryBuilder([]string{"go-upc.com", "barcodelookup.com"}, []string{"ebay."})
	de := domain.LookupMarket("DE")

	t.Run("targeted", func(t *testing.T) {
		assert.Equal(t, `(site:go-upc.com OR site:barcodelookup.com) "4006381333931"`, b.Targeted("4006381333931"))
		assert.Empty(t, NewQueryBuilder(nil, nil).Targeted("4006381333931"))
	})

	t.Run("localized", func(t *testing.T) {
		assert.Equal(t, `"4006381333931" Deutschland Germany -site:ebay.*`, b.Localized("4006381333931", de))
		assert.Empty(t, b.Localized("4006381333931", domain.DefaultMarket))
	})

	t.Run("broad", func(t *testing.T) {
		assert.Equal(t, `"4006381333931" -site:ebay.*`, b.Broad("4006381333931"))
		assert.Equal(t, `"4006381333931"`, NewQueryBuilder(nil, nil).Broad("4006381333931"))
	})

	t.Run("name derived", func(t *testing.T) {
		assert.Equal(t, "milka alpenmilch -site:ebay.*", b.NameDerived("Milka Alpenmilch 100g"))
		assert.Empty(t, b.NameDerived(""))
	})
}

func TestQueryBuilder_TextFallback(t *testing.T) {
	b := NewQueryBuilder(nil, nil)

	testCases := []struct {
		name        string
		productName string
		lang        domain.Language
		want        string
	}{
		{"german without name", domain.Sentinel, domain.LangGerman, `"4006381333931" Zutaten Nährwerte`},
		{"german with name", "Butterkeks", domain.LangGerman, `"4006381333931" Butterkeks Zutaten Nährwerte`},
		{"english", "", domain.LangEnglish, `"4006381333931" Ingredients Nutrition`},
		{"french", "", domain.LangFrench, `"4006381333931" Ingrédients Valeurs Nutritionnelles`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.TextFallback("4006381333931", tc.productName, tc.lang))
		})
	}
}
