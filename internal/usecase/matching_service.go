package usecase

import (
	"net/url"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
)

// DefaultTrustedDomains are product databases whose images show the pack itself
var DefaultTrustedDomains = []string{
	"barcodelookup.com",
	"go-upc.com",
	"upcitemdb.com",
	"ean-search.org",
}

// DefaultBlockedDomains are open databases and peer marketplaces whose images
// are user uploads. An entry ending in "." matches every top-level domain.
var DefaultBlockedDomains = []string{
	"openfoodfacts.org",
	"world.openfoodfacts.org",
	"myfitnesspal.com",
	"pinterest.",
	"ebay.",
	"etsy.",
	"kleinanzeigen.de",
	"vinted.",
}

// placeholderMarkers flag stock photos and "no image" placeholders in a URL
var placeholderMarkers = []string{
	"placeholder", "no-image", "noimage", "no_image", "image-not-found",
	"default-product", "coming-soon", "dummy",
	"shutterstock", "istockphoto", "gettyimages", "dreamstime", "alamy", "depositphotos",
}

// CandidateMatcher decides which search results are worth validating
type CandidateMatcher struct {
	blocked []string
}

// NewCandidateMatcher creates a matcher over the blocked domain list
func NewCandidateMatcher(blockedDomains []string) *CandidateMatcher {
	blocked := make([]string, 0, len(blockedDomains))
	for _, d := range blockedDomains {
		if d = strings.TrimSpace(strings.ToLower(d)); d != "" {
			blocked = append(blocked, d)
		}
	}
	return &CandidateMatcher{blocked: blocked}
}

// IsBlocked reports whether the candidate comes from a blocked domain or
// looks like a stock or placeholder image
func (m *CandidateMatcher) IsBlocked(c domain.CandidateImage) bool {
	for _, raw := range []string{c.URL, c.SourcePageURL} {
		if raw == "" {
			continue
		}
		if m.blockedHost(raw) {
			return true
		}
	}

	lower := strings.ToLower(c.URL)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (m *CandidateMatcher) blockedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	for _, d := range m.blocked {
		if strings.HasSuffix(d, ".") {
			// "ebay." matches ebay.de, ebay.co.uk and m.ebay.com
			if strings.HasPrefix(host, d) || strings.Contains(host, "."+d) {
				return true
			}
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// TitleMatches reports whether the candidate title mentions the brand keyword.
// An empty keyword matches everything; an empty title never matches a keyword.
func TitleMatches(title, brandKeyword string) bool {
	if brandKeyword == "" {
		return true
	}
	return strings.Contains(foldText(title), brandKeyword)
}
