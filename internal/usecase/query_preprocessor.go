package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/extraction"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for product-name cleanup
var (
	// Size/quantity like "500 g", "1,5 l", "12 fl oz"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:fl\.?\s*oz|oz|mg|kg|g|ml|cl|l|lbs?)\b`)

	// Pack/count like "6 x 330", "12er", "pack of 6", "6-pack"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+\s*[x×]\s*(?:\d+)?|\b\d+[-\s]*(?:pack|pk|count|ct|er|stk|stück)\b|\bpack\s*of\s*\d+\b`)

	// Anything that is not a letter, digit or whitespace
	nonNameCharPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// maxNameQueryLength bounds the name-derived search query
const maxNameQueryLength = 100

// queryNoiseWords never serve as a brand keyword and are dropped from
// name-derived queries
var queryNoiseWords = map[string]bool{
	// Articles and connectors
	"the": true, "and": true, "with": true, "of": true, "for": true,
	"der": true, "die": true, "das": true, "und": true, "mit": true, "von": true,
	"le": true, "la": true, "les": true, "et": true, "avec": true, "du": true, "des": true,
	"il": true, "lo": true, "con": true, "el": true, "los": true, "las": true, "y": true,
	"het": true, "een": true, "en": true, "og": true, "med": true, "och": true,
	"i": true, "z": true, "com": true, "e": true, "de": true,

	// Marketing terms
	"new": true, "neu": true, "nouveau": true, "nuovo": true, "nuevo": true, "nieuw": true,
	"premium": true, "bio": true, "organic": true, "classic": true, "family": true,
	"value": true, "bonus": true, "edition": true,

	// Packaging terms
	"pack": true, "box": true, "bag": true, "bottle": true, "can": true, "jar": true,
	"dose": true, "flasche": true, "packung": true, "beutel": true, "glas": true,
	"boite": true, "sachet": true, "bouteille": true,
}

// foldText lower-cases s and strips diacritics so "Müller" and "MULLER" compare equal
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(folded)
}

// SanitizeProductName reduces a product name to folded letters, digits and
// single spaces, without sizes, pack counts or noise words
func SanitizeProductName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(name, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = foldText(cleaned)
	cleaned = nonNameCharPattern.ReplaceAllString(cleaned, " ")

	var kept []string
	for _, word := range strings.Fields(cleaned) {
		if !queryNoiseWords[word] {
			kept = append(kept, word)
		}
	}
	cleaned = strings.Join(kept, " ")

	if len(cleaned) > maxNameQueryLength {
		cleaned = cleaned[:maxNameQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxNameQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
		cleaned = strings.ToValidUTF8(cleaned, "")
	}

	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(cleaned, " "))
}

// BrandKeyword returns the first significant token of a product name:
// folded, at least two runes, not purely numeric and not a noise word
func BrandKeyword(name string) string {
	for _, token := range strings.Fields(nonNameCharPattern.ReplaceAllString(foldText(name), " ")) {
		if len([]rune(token)) < 2 || queryNoiseWords[token] || isNumeric(token) {
			continue
		}
		return token
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// QueryBuilder renders the search queries used by the image cascade and the
// snippet pass
type QueryBuilder struct {
	trustedDomains []string
	banOperators   string
}

// NewQueryBuilder creates a builder over the trusted and blocked domain lists
func NewQueryBuilder(trustedDomains, blockedDomains []string) *QueryBuilder {
	return &QueryBuilder{
		trustedDomains: trustedDomains,
		banOperators:   banOperators(blockedDomains),
	}
}

// banOperators renders "-site:" operators. Entries ending in "." stand for
// every top-level domain ("ebay." becomes "-site:ebay.*").
func banOperators(blocked []string) string {
	ops := make([]string, 0, len(blocked))
	for _, d := range blocked {
		d = strings.TrimSpace(strings.ToLower(d))
		if d == "" {
			continue
		}
		if strings.HasSuffix(d, ".") {
			d += "*"
		}
		ops = append(ops, "-site:"+d)
	}
	return strings.Join(ops, " ")
}

// Targeted restricts the barcode search to the trusted product databases
func (b *QueryBuilder) Targeted(barcode string) string {
	if len(b.trustedDomains) == 0 {
		return ""
	}
	sites := make([]string, len(b.trustedDomains))
	for i, d := range b.trustedDomains {
		sites[i] = "site:" + d
	}
	return fmt.Sprintf(`(%s) "%s"`, strings.Join(sites, " OR "), barcode)
}

// Localized searches the barcode together with the market's country names
func (b *QueryBuilder) Localized(barcode string, market domain.Market) string {
	if market.CountryName == "" {
		return ""
	}
	return b.join(fmt.Sprintf(`"%s" %s`, barcode, market.CountryName))
}

// Broad searches the barcode alone
func (b *QueryBuilder) Broad(barcode string) string {
	return b.join(fmt.Sprintf(`"%s"`, barcode))
}

// NameDerived searches the sanitized product name
func (b *QueryBuilder) NameDerived(productName string) string {
	name := SanitizeProductName(productName)
	if name == "" {
		return ""
	}
	return b.join(name)
}

// TextFallback builds the snippet-pass query: the quoted barcode, the product
// name when known and the market language's ingredients and nutrition labels
func (b *QueryBuilder) TextFallback(barcode, productName string, lang domain.Language) string {
	ingredients, nutrition := extraction.QueryLabels(lang)
	title := cases.Title(language.Und)

	parts := []string{fmt.Sprintf(`"%s"`, barcode)}
	if !domain.IsSentinel(productName) {
		parts = append(parts, strings.TrimSpace(productName))
	}
	parts = append(parts, title.String(ingredients), title.String(nutrition))
	return strings.Join(parts, " ")
}

func (b *QueryBuilder) join(q string) string {
	if b.banOperators == "" {
		return q
	}
	return q + " " + b.banOperators
}
