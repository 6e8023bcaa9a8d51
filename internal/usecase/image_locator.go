package usecase

import (
	"context"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
	"go.uber.org/zap"
)

// DefaultMaxCandidates bounds how many search results one strategy validates
const DefaultMaxCandidates = 10

// Strategy names, in cascade order
const (
	StrategyLookup      = "lookup"
	StrategyTargeted    = "targeted"
	StrategyLocalized   = "localized"
	StrategyBroad       = "broad"
	StrategyNameDerived = "name"
)

// LocatorConfig holds the cascade settings
type LocatorConfig struct {
	MaxCandidates  int
	TrustedDomains []string
	BlockedDomains []string
}

// locateState is shared by the strategies of one cascade run
type locateState struct {
	barcode      string
	market       domain.Market
	productName  string
	brandKeyword string
	examined     int
}

// strategy is one step of the cascade. It reports a validated candidate or false.
type strategy struct {
	name string
	run  func(ctx context.Context, st *locateState) (domain.CandidateImage, bool)
}

// ImageLocator runs the ordered image cascade for a barcode
type ImageLocator struct {
	lookup        domain.BarcodeLookup
	searcher      domain.ImageSearcher
	validator     *ImageValidator
	queries       *QueryBuilder
	matcher       *CandidateMatcher
	maxCandidates int
	strategies    []strategy
	logger        *zap.Logger
}

// NewImageLocator wires the cascade. lookup and searcher may be nil, in which
// case the strategies that need them find nothing.
func NewImageLocator(
	lookup domain.BarcodeLookup,
	searcher domain.ImageSearcher,
	validator *ImageValidator,
	config LocatorConfig,
	logger *zap.Logger,
) *ImageLocator {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultMaxCandidates
	}
	if config.TrustedDomains == nil {
		config.TrustedDomains = DefaultTrustedDomains
	}
	if config.BlockedDomains == nil {
		config.BlockedDomains = DefaultBlockedDomains
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &ImageLocator{
		lookup:        lookup,
		searcher:      searcher,
		validator:     validator,
		queries:       NewQueryBuilder(config.TrustedDomains, config.BlockedDomains),
		matcher:       NewCandidateMatcher(config.BlockedDomains),
		maxCandidates: config.MaxCandidates,
		logger:        logger,
	}

	l.strategies = []strategy{
		{name: StrategyLookup, run: l.fromLookup},
		{name: StrategyTargeted, run: func(ctx context.Context, st *locateState) (domain.CandidateImage, bool) {
			return l.fromSearch(ctx, st, l.queries.Targeted(st.barcode))
		}},
		{name: StrategyLocalized, run: func(ctx context.Context, st *locateState) (domain.CandidateImage, bool) {
			return l.fromSearch(ctx, st, l.queries.Localized(st.barcode, st.market))
		}},
		{name: StrategyBroad, run: func(ctx context.Context, st *locateState) (domain.CandidateImage, bool) {
			return l.fromSearch(ctx, st, l.queries.Broad(st.barcode))
		}},
		{name: StrategyNameDerived, run: func(ctx context.Context, st *locateState) (domain.CandidateImage, bool) {
			if st.productName == "" {
				return domain.CandidateImage{}, false
			}
			return l.fromSearch(ctx, st, l.queries.NameDerived(st.productName))
		}},
	}

	return l
}

// Locate runs the cascade and stops at the first validated candidate.
// The product name from the lookup is kept even when no image is accepted.
func (l *ImageLocator) Locate(ctx context.Context, barcode string, market domain.Market) domain.LocateResult {
	st := &locateState{barcode: strings.TrimSpace(barcode), market: market}
	var result domain.LocateResult

	for _, s := range l.strategies {
		if ctx.Err() != nil {
			l.logger.Debug("Cascade cancelled", zap.String("barcode", st.barcode), zap.Error(ctx.Err()))
			break
		}

		st.examined = 0
		candidate, ok := s.run(ctx, st)
		l.logger.Debug("Strategy attempted",
			zap.String("barcode", st.barcode),
			zap.String("strategy", s.name),
			zap.Int("candidates_examined", st.examined),
			zap.Bool("found", ok))

		if ok {
			result = domain.LocateResult{
				Found:         true,
				URL:           candidate.URL,
				SourcePageURL: candidate.SourcePageURL,
				Strategy:      s.name,
			}
			break
		}
	}

	result.ProductName = st.productName
	return result
}

// fromLookup asks the barcode database and validates its image
func (l *ImageLocator) fromLookup(ctx context.Context, st *locateState) (domain.CandidateImage, bool) {
	if l.lookup == nil {
		return domain.CandidateImage{}, false
	}

	info, err := l.lookup.Lookup(ctx, st.barcode)
	if err != nil || info == nil {
		l.logger.Debug("Barcode lookup gave no result", zap.String("barcode", st.barcode), zap.Error(err))
		return domain.CandidateImage{}, false
	}

	if name := strings.TrimSpace(info.Name); name != "" {
		st.productName = name
		st.brandKeyword = BrandKeyword(name)
	}

	if info.ImageURL == "" {
		return domain.CandidateImage{}, false
	}
	st.examined++
	candidate := domain.CandidateImage{URL: info.ImageURL, SourcePageURL: info.SourceURL, Title: info.Name}
	if !l.validator.IsAcceptable(ctx, candidate.URL) {
		return domain.CandidateImage{}, false
	}
	candidate.Validated = true
	return candidate, true
}

// fromSearch runs one image search and validates its results in rank order
func (l *ImageLocator) fromSearch(ctx context.Context, st *locateState, query string) (domain.CandidateImage, bool) {
	if l.searcher == nil || query == "" {
		return domain.CandidateImage{}, false
	}

	results, err := l.searcher.SearchImages(ctx, domain.ImageQuery{Query: query, Market: st.market})
	if err != nil {
		l.logger.Debug("Image search gave no result", zap.String("query", query), zap.Error(err))
		return domain.CandidateImage{}, false
	}

	if len(results) > l.maxCandidates {
		results = results[:l.maxCandidates]
	}

	for _, r := range results {
		if ctx.Err() != nil {
			return domain.CandidateImage{}, false
		}

		candidate := domain.CandidateImage{URL: r.OriginalURL, SourcePageURL: r.LinkURL, Title: r.Title}
		if candidate.URL == "" || l.matcher.IsBlocked(candidate) {
			continue
		}
		if !TitleMatches(candidate.Title, st.brandKeyword) {
			continue
		}

		st.examined++
		if l.validator.IsAcceptable(ctx, candidate.URL) {
			candidate.Validated = true
			return candidate, true
		}
	}
	return domain.CandidateImage{}, false
}
