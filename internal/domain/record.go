package domain

import (
	"encoding/json"
	"strings"
)

// Sentinel marks a field that could not be resolved
const Sentinel = "-"

// StatusKind enumerates the terminal states of a resolution
type StatusKind int

const (
	StatusMissing StatusKind = iota
	StatusFound
	StatusError
)

// NoDataFound is the status detail used when neither image nor text was found
const NoDataFound = "No Data Found"

// Status is the outcome of a resolution. Reason is only meaningful for
// Missing and Error.
type Status struct {
	Kind   StatusKind
	Reason string
}

// Found returns a Found status
func Found() Status { return Status{Kind: StatusFound} }

// Missing returns a Missing status with a reason
func Missing(reason string) Status { return Status{Kind: StatusMissing, Reason: reason} }

// Failed returns an Error status with a reason
func Failed(reason string) Status { return Status{Kind: StatusError, Reason: reason} }

// String renders the status the way the export layer shows it
func (s Status) String() string {
	switch s.Kind {
	case StatusFound:
		return "Found"
	case StatusError:
		if s.Reason == "" {
			return "Error"
		}
		return "Error: " + s.Reason
	default:
		return "Missing"
	}
}

// MarshalJSON encodes the status as its display string
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a display string back into a Status
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw == "Found":
		*s = Found()
	case raw == "Error":
		*s = Failed("")
	case strings.HasPrefix(raw, "Error: "):
		*s = Failed(strings.TrimPrefix(raw, "Error: "))
	default:
		*s = Missing("")
	}
	return nil
}

// ExtractedFields is the fixed schema of facts pulled out of text or an image.
// Every field holds either a value or Sentinel.
type ExtractedFields struct {
	Weight          string `json:"weight"`
	Ingredients     string `json:"ingredients"`
	Allergens       string `json:"allergens"`
	MayContain      string `json:"may_contain"`
	NutritionHeader string `json:"nutri_scope"`
	Energy          string `json:"energy"`
	Fat             string `json:"fat"`
	Saturates       string `json:"saturates"`
	Carbs           string `json:"carbs"`
	Sugars          string `json:"sugars"`
	Protein         string `json:"protein"`
	Fiber           string `json:"fiber"`
	Salt            string `json:"salt"`
	OrganicID       string `json:"organic_id"`
}

// EmptyFields returns a field set with every slot at Sentinel
func EmptyFields() ExtractedFields {
	var f ExtractedFields
	for _, p := range f.slots() {
		*p = Sentinel
	}
	return f
}

// slots lists pointers to every field in schema order
func (f *ExtractedFields) slots() []*string {
	return []*string{
		&f.Weight, &f.Ingredients, &f.Allergens, &f.MayContain, &f.NutritionHeader,
		&f.Energy, &f.Fat, &f.Saturates, &f.Carbs, &f.Sugars,
		&f.Protein, &f.Fiber, &f.Salt, &f.OrganicID,
	}
}

// Values returns the field values in schema order
func (f ExtractedFields) Values() []string {
	slots := f.slots()
	out := make([]string, len(slots))
	for i, p := range slots {
		out[i] = *p
	}
	return out
}

// Normalize replaces blank values with Sentinel
func (f ExtractedFields) Normalize() ExtractedFields {
	for _, p := range f.slots() {
		*p = OrSentinel(*p)
	}
	return f
}

// Merge fills every sentinel slot of f with the corresponding value from other.
// Values already present in f win.
func (f ExtractedFields) Merge(other ExtractedFields) ExtractedFields {
	dst := f.slots()
	src := other.slots()
	for i := range dst {
		if IsSentinel(*dst[i]) && !IsSentinel(*src[i]) {
			*dst[i] = *src[i]
		}
	}
	return f
}

// Populated counts fields holding a real value
func (f ExtractedFields) Populated() int {
	n := 0
	for _, p := range f.slots() {
		if !IsSentinel(*p) {
			n++
		}
	}
	return n
}

// HasIngredients reports whether the ingredients slot was resolved
func (f ExtractedFields) HasIngredients() bool {
	return !IsSentinel(f.Ingredients)
}

// IsSentinel reports whether s means "not resolved"
func IsSentinel(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == Sentinel
}

// OrSentinel returns s trimmed, or Sentinel when s is blank
func OrSentinel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Sentinel
	}
	return s
}

// NutritionRecord is the canonical output of one barcode+market resolution.
// It serializes as a flat row; every key is always present.
type NutritionRecord struct {
	Found        bool   `json:"found"`
	GTIN         string `json:"gtin"`
	Status       Status `json:"status"`
	StatusDetail string `json:"status_detail"`
	Market       string `json:"market"`
	ImageURL     string `json:"image_url"`
	SourceURL    string `json:"source_url"`
	ProductName  string `json:"product_name"`
	InfoSource   string `json:"info_source"` // which pass supplied the fields
	ExtractedFields
}

// NewRecord returns a record for gtin/market with everything at Sentinel
func NewRecord(gtin, market string) NutritionRecord {
	return NutritionRecord{
		GTIN:            gtin,
		Market:          market,
		Status:          Missing(NoDataFound),
		StatusDetail:    NoDataFound,
		ImageURL:        Sentinel,
		SourceURL:       Sentinel,
		ProductName:     Sentinel,
		InfoSource:      Sentinel,
		ExtractedFields: EmptyFields(),
	}
}

// ExportHeader is the column order used by CSV and XLSX exports
var ExportHeader = []string{
	"EAN", "ProductName", "Weight", "Status", "ImageURL", "SourceVariants",
	"Ingredients", "Allergens", "MayContain", "NutritionalScope",
	"Energy", "Fat", "Saturates", "Carbs", "Sugars", "Protein", "Fiber", "Salt",
	"OrganicID", "FoodInfoSource",
}

// Row flattens the record into ExportHeader order
func (r NutritionRecord) Row() []string {
	f := r.ExtractedFields
	return []string{
		r.GTIN, r.ProductName, f.Weight, r.Status.String(), r.ImageURL, r.SourceURL,
		f.Ingredients, f.Allergens, f.MayContain, f.NutritionHeader,
		f.Energy, f.Fat, f.Saturates, f.Carbs, f.Sugars, f.Protein, f.Fiber, f.Salt,
		f.OrganicID, r.InfoSource,
	}
}
