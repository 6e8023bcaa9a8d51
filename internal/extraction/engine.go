package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
)

// Package-level compiled patterns that do not depend on the synonym table
var (
	nutritionHeaderRegex = regexp.MustCompile(
		`(?i)(?:^|[^\p{L}])((?:per|pro|je|pour|par|por|pr\.?|für|for|w|na)\s*100\s*(?:g|ml)(?:\s*/\s*(?:g|ml))?)\b`,
	)
	organicIDRegex = regexp.MustCompile(
		`(?i)\b([a-z]{2}-(?:ökologisk|ekologisk|öko|oeko|oko|øko|bio|eco|eko|org)-\d{2,3})\b`,
	)
	innerSpaceRegex = regexp.MustCompile(`\s+`)
)

// languagePatterns holds one compiled pattern per language plus one covering
// every language
type languagePatterns struct {
	byLang map[domain.Language]*regexp.Regexp
	all    *regexp.Regexp
}

// ordered returns the patterns to try for the given hints: each hinted
// language alone, English, then every language together.
func (p languagePatterns) ordered(hints []domain.Language) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(hints)+2)
	seen := make(map[domain.Language]bool)
	for _, lang := range append(append([]domain.Language{}, hints...), domain.LangEnglish) {
		if seen[lang] {
			continue
		}
		seen[lang] = true
		if re, ok := p.byLang[lang]; ok {
			out = append(out, re)
		}
	}
	if p.all != nil {
		out = append(out, p.all)
	}
	return out
}

type freeTextRule struct {
	field    Field
	patterns languagePatterns
	maxLen   int
}

type numericRule struct {
	field    Field
	patterns languagePatterns
	paired   bool     // a second value in another unit may follow ("1500kJ / 358kcal")
	notAfter []string // label matches preceded by one of these are skipped
}

// Engine extracts the fixed field schema from free text.
// It holds only compiled patterns, so it is safe for concurrent use and
// Extract is a pure function of its input.
type Engine struct {
	freeText []freeTextRule
	numeric  []numericRule
	weight   languagePatterns
	stops    []*regexp.Regexp
}

// span is a byte range of the normalized text claimed by a free-text field
type span struct{ start, end int }

// NewEngine compiles an engine over the default synonym tables
func NewEngine() *Engine {
	return NewEngineWithTables(Labels, StopLabels, SectionLabels)
}

// NewEngineWithTables compiles an engine over custom synonym, stop and
// section tables
func NewEngineWithTables(labels SynonymTable, stops, sections map[domain.Language][]string) *Engine {
	e := &Engine{
		stops: compileStops(labels, stops, sections),
	}

	e.freeText = []freeTextRule{
		{field: FieldIngredients, patterns: compileLabels(labels[FieldIngredients], freeTextPattern), maxLen: maxIngredientsLength},
		{field: FieldAllergens, patterns: compileLabels(labels[FieldAllergens], freeTextPattern), maxLen: maxFreeTextLength},
		{field: FieldMayContain, patterns: compileLabels(labels[FieldMayContain], freeTextPattern), maxLen: maxFreeTextLength},
	}

	e.numeric = []numericRule{
		{field: FieldEnergy, patterns: compileLabels(labels[FieldEnergy], energyPattern), paired: true},
		{field: FieldFat, patterns: compileLabels(labels[FieldFat], massPattern), notAfter: saturatedMarkers},
		{field: FieldSaturates, patterns: compileLabels(labels[FieldSaturates], massPattern)},
		{field: FieldCarbs, patterns: compileLabels(labels[FieldCarbs], massPattern)},
		{field: FieldSugars, patterns: compileLabels(labels[FieldSugars], massPattern)},
		{field: FieldProtein, patterns: compileLabels(labels[FieldProtein], massPattern)},
		{field: FieldFiber, patterns: compileLabels(labels[FieldFiber], massPattern)},
		{field: FieldSalt, patterns: compileLabels(labels[FieldSalt], massPattern)},
	}

	e.weight = compileLabels(labels[FieldWeight], weightPattern)

	return e
}

// Extract pulls every field out of blob. Hinted languages are tried first.
// Fields without a match are left at domain.Sentinel.
func (e *Engine) Extract(blob string, langs ...domain.Language) domain.ExtractedFields {
	fields := domain.EmptyFields()
	text := Normalize(blob)
	if text == "" {
		return fields
	}

	var claimed []span
	for _, rule := range e.freeText {
		for _, re := range rule.patterns.ordered(langs) {
			if v, sp, ok := e.captureFreeText(re, text, rule.maxLen); ok {
				*slot(&fields, rule.field) = v
				claimed = append(claimed, sp)
				break
			}
		}
	}

	// Quantities inside an ingredient list ("Zucker 500g") are not nutrition values
	for _, rule := range e.numeric {
		for _, re := range rule.patterns.ordered(langs) {
			if v, ok := captureNumeric(re, text, rule, claimed); ok {
				*slot(&fields, rule.field) = v
				break
			}
		}
	}

	for _, re := range e.weight.ordered(langs) {
		if v, ok := captureNumeric(re, text, numericRule{field: FieldWeight}, claimed); ok {
			fields.Weight = v
			break
		}
	}

	if m := nutritionHeaderRegex.FindStringSubmatch(text); m != nil {
		fields.NutritionHeader = innerSpaceRegex.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	}

	if m := organicIDRegex.FindStringSubmatch(text); m != nil {
		fields.OrganicID = strings.ToUpper(m[1])
	}

	return fields
}

// captureFreeText walks every label occurrence and returns the first
// non-empty text that follows it, cut at the next stop, with the range it covers.
func (e *Engine) captureFreeText(re *regexp.Regexp, text string, maxLen int) (string, span, bool) {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		rest = rest[:e.boundary(rest)]
		value := strings.Trim(rest, " \t,;:|-–—")
		if value == "" {
			continue
		}
		return Truncate(value, maxLen), span{start: loc[1], end: loc[1] + len(rest)}, true
	}
	return "", span{}, false
}

// boundary returns the offset of the earliest stop in rest, or len(rest)
func (e *Engine) boundary(rest string) int {
	end := len(rest)
	for _, re := range e.stops {
		if m := re.FindStringSubmatchIndex(rest); m != nil && m[2] < end {
			end = m[2]
		}
	}
	return end
}

// captureNumeric returns comparator+number+unit for the first acceptable
// match whose label lies outside every claimed span
func captureNumeric(re *regexp.Regexp, text string, rule numericRule, claimed []span) (string, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if inside(claimed, m[2]) {
			continue
		}
		if len(rule.notAfter) > 0 && precededBy(text, m[2], rule.notAfter) {
			continue
		}
		value := strings.TrimSpace(group(text, m, 2)) + group(text, m, 3) + group(text, m, 4)
		if rule.paired && len(m) > 10 && m[10] >= 0 {
			value += " / " + group(text, m, 5) + group(text, m, 6)
		}
		return Truncate(value, maxNumericLength), true
	}
	return "", false
}

func inside(claimed []span, pos int) bool {
	for _, sp := range claimed {
		if pos >= sp.start && pos < sp.end {
			return true
		}
	}
	return false
}

func group(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}

// precededBy reports whether one of markers appears in the 25 bytes before
// pos, looking no further back than the previous number
func precededBy(text string, pos int, markers []string) bool {
	start := pos - 25
	if start < 0 {
		start = 0
	}
	window := text[start:pos]
	if i := strings.LastIndexAny(window, "0123456789"); i >= 0 {
		window = window[i+1:]
	}
	window = strings.ToLower(window)
	for _, marker := range markers {
		if strings.Contains(window, marker) {
			return true
		}
	}
	return false
}

// slot maps a field identifier to its storage in ExtractedFields
func slot(f *domain.ExtractedFields, field Field) *string {
	switch field {
	case FieldWeight:
		return &f.Weight
	case FieldIngredients:
		return &f.Ingredients
	case FieldAllergens:
		return &f.Allergens
	case FieldMayContain:
		return &f.MayContain
	case FieldNutritionHeader:
		return &f.NutritionHeader
	case FieldEnergy:
		return &f.Energy
	case FieldFat:
		return &f.Fat
	case FieldSaturates:
		return &f.Saturates
	case FieldCarbs:
		return &f.Carbs
	case FieldSugars:
		return &f.Sugars
	case FieldProtein:
		return &f.Protein
	case FieldFiber:
		return &f.Fiber
	case FieldSalt:
		return &f.Salt
	default:
		return &f.OrganicID
	}
}

// Pattern builders. Each receives a label alternation and returns the full
// expression. The leading class stands in for a Unicode-aware word boundary.

func freeTextPattern(alternation string) string {
	return `(?i)(?:^|[^\p{L}])(?:` + alternation + `)(?:\s*[:：\-–—]\s*|\s+|$)`
}

func massPattern(alternation string) string {
	return numberPattern(alternation, massUnits, false)
}

func energyPattern(alternation string) string {
	return numberPattern(alternation, energyUnits, true)
}

func weightPattern(alternation string) string {
	return numberPattern(alternation, weightUnits, false)
}

// numberPattern: label, optional gap of up to 20 non-digits that starts with
// a non-letter, optional comparator, number, unit. Groups: 1 label,
// 2 comparator, 3 number, 4 unit, 5/6 paired number and unit.
func numberPattern(alternation, units string, paired bool) string {
	p := `(?i)(?:^|[^\p{L}])(` + alternation + `)(?:[^\p{L}\d][^\d]{0,20}?)??([<>≤≥]?\s*)(\d+(?:[.,]\d+)?)\s*(` + units + `)`
	if paired {
		p += `(?:\s*/\s*(\d+(?:[.,]\d+)?)\s*(` + units + `))?`
	}
	return p + `\b`
}

// compileLabels builds per-language and all-language patterns for one field
func compileLabels(byLang map[domain.Language][]string, build func(string) string) languagePatterns {
	p := languagePatterns{byLang: make(map[domain.Language]*regexp.Regexp, len(byLang))}
	var every []string
	for lang, labels := range byLang {
		if alternation(labels) == "" {
			continue
		}
		p.byLang[lang] = regexp.MustCompile(build(alternation(labels)))
		every = append(every, labels...)
	}
	if len(every) > 0 {
		p.all = regexp.MustCompile(build(alternation(every)))
	}
	return p
}

// compileStops builds the expressions that end free-text captures. Group 1
// of each marks where the capture is cut:
//   - stop labels and free-text field labels as whole words,
//   - section labels followed by a separator,
//   - nutrient labels followed by a quantity, unless they follow a comma,
//     semicolon or opening parenthesis.
func compileStops(labels SynonymTable, stops, sections map[domain.Language][]string) []*regexp.Regexp {
	var out []*regexp.Regexp

	words := flatten(stops)
	for _, field := range stopFields {
		words = append(words, flatten(labels[field])...)
	}
	if alt := alternation(words); alt != "" {
		out = append(out, regexp.MustCompile(`(?i)(?:^|[^\p{L}])(`+alt+`)(?:[^\p{L}]|$)`))
	}

	headings := flatten(sections)
	for _, field := range sectionFields {
		headings = append(headings, flatten(labels[field])...)
	}
	if alt := alternation(headings); alt != "" {
		out = append(out, regexp.MustCompile(`(?i)(?:^|[^\p{L}])(`+alt+`)\s*[:：\-–—]`))
	}

	var nutrients []string
	for _, field := range valueFields {
		nutrients = append(nutrients, flatten(labels[field])...)
	}
	if alt := alternation(nutrients); alt != "" {
		out = append(out, regexp.MustCompile(
			`(?i)(?:[^\p{L},;(\s]|[^,;(\s]\s+)(`+alt+`)(?:[^\p{L}\d][^\d]{0,20}?)??[<>≤≥]?\s*\d+(?:[.,]\d+)?\s*(?:`+massUnits+`|`+energyUnits+`)\b`,
		))
	}

	return out
}

func flatten(byLang map[domain.Language][]string) []string {
	var out []string
	for _, words := range byLang {
		out = append(out, words...)
	}
	return out
}

// alternation quotes, de-duplicates and orders labels longest first so that
// "zutatenliste" is tried before "zutaten"
func alternation(labels []string) string {
	seen := make(map[string]bool, len(labels))
	uniq := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	sort.SliceStable(uniq, func(i, j int) bool {
		if len(uniq[i]) != len(uniq[j]) {
			return len(uniq[i]) > len(uniq[j])
		}
		return uniq[i] < uniq[j]
	})
	quoted := make([]string, len(uniq))
	for i, l := range uniq {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(l), " ", `\s+`)
	}
	return strings.Join(quoted, "|")
}
