package domain

import "strings"

// Language is a two-letter language code used for extraction and search hints
type Language string

const (
	LangEnglish    Language = "en"
	LangGerman     Language = "de"
	LangFrench     Language = "fr"
	LangItalian    Language = "it"
	LangSpanish    Language = "es"
	LangDutch      Language = "nl"
	LangDanish     Language = "da"
	LangSwedish    Language = "sv"
	LangNorwegian  Language = "no"
	LangPolish     Language = "pl"
	LangPortuguese Language = "pt"
)

// AllLanguages lists every language the extraction tables cover
var AllLanguages = []Language{
	LangEnglish, LangGerman, LangFrench, LangItalian, LangSpanish, LangDutch,
	LangDanish, LangSwedish, LangNorwegian, LangPolish, LangPortuguese,
}

// Name returns the English name of the language (used in vision prompts)
func (l Language) Name() string {
	switch l {
	case LangGerman:
		return "German"
	case LangFrench:
		return "French"
	case LangItalian:
		return "Italian"
	case LangSpanish:
		return "Spanish"
	case LangDutch:
		return "Dutch"
	case LangDanish:
		return "Danish"
	case LangSwedish:
		return "Swedish"
	case LangNorwegian:
		return "Norwegian"
	case LangPolish:
		return "Polish"
	case LangPortuguese:
		return "Portuguese"
	default:
		return "English"
	}
}

// Market is a target country. Every market has exactly one language.
type Market struct {
	Code        string   `json:"code"`
	CountryName string   `json:"countryName"` // native and English names, space separated
	Language    Language `json:"language"`
	GL          string   `json:"gl"` // geo hint for search providers
}

// HL returns the interface-language hint for search providers
func (m Market) HL() string {
	return string(m.Language)
}

// DefaultMarket is used for unknown or empty market codes
var DefaultMarket = Market{Code: "", CountryName: "", Language: LangEnglish, GL: ""}

var markets = []Market{
	{Code: "DE", CountryName: "Deutschland Germany", Language: LangGerman, GL: "de"},
	{Code: "AT", CountryName: "Österreich Austria", Language: LangGerman, GL: "at"},
	{Code: "CH", CountryName: "Schweiz Suisse Switzerland", Language: LangGerman, GL: "ch"},
	{Code: "UK", CountryName: "United Kingdom UK", Language: LangEnglish, GL: "uk"},
	{Code: "GB", CountryName: "Great Britain United Kingdom", Language: LangEnglish, GL: "uk"},
	{Code: "IE", CountryName: "Ireland Éire", Language: LangEnglish, GL: "ie"},
	{Code: "FR", CountryName: "France", Language: LangFrench, GL: "fr"},
	{Code: "BE", CountryName: "Belgique België Belgium", Language: LangFrench, GL: "be"},
	{Code: "IT", CountryName: "Italia Italy", Language: LangItalian, GL: "it"},
	{Code: "ES", CountryName: "España Spain", Language: LangSpanish, GL: "es"},
	{Code: "NL", CountryName: "Nederland Netherlands", Language: LangDutch, GL: "nl"},
	{Code: "DK", CountryName: "Danmark Denmark", Language: LangDanish, GL: "dk"},
	{Code: "SE", CountryName: "Sverige Sweden", Language: LangSwedish, GL: "se"},
	{Code: "NO", CountryName: "Norge Norway", Language: LangNorwegian, GL: "no"},
	{Code: "PL", CountryName: "Polska Poland", Language: LangPolish, GL: "pl"},
	{Code: "PT", CountryName: "Portugal", Language: LangPortuguese, GL: "pt"},
}

var marketIndex = func() map[string]Market {
	idx := make(map[string]Market, len(markets))
	for _, m := range markets {
		idx[m.Code] = m
	}
	return idx
}()

// LookupMarket resolves a market code case-insensitively.
// Unknown codes get DefaultMarket with the code preserved.
func LookupMarket(code string) Market {
	code = strings.ToUpper(strings.TrimSpace(code))
	if m, ok := marketIndex[code]; ok {
		return m
	}
	m := DefaultMarket
	m.Code = code
	return m
}

// IsSupportedMarket reports whether code is in the market table
func IsSupportedMarket(code string) bool {
	_, ok := marketIndex[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// SupportedMarkets returns a copy of the market table
func SupportedMarkets() []Market {
	out := make([]Market, len(markets))
	copy(out, markets)
	return out
}
