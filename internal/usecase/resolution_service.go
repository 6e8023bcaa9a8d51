package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/extraction"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// VisionMode controls where the vision pass runs in the pass order
type VisionMode string

const (
	VisionOff      VisionMode = "off"
	VisionFirst    VisionMode = "first"
	VisionFallback VisionMode = "fallback"
)

// Pass names, also reported as the record's info source
const (
	PassVision   = "vision"
	PassPage     = "page"
	PassSnippets = "snippets"
)

// Status reasons set by the orchestrator
const (
	ReasonEmptyBarcode    = "empty barcode"
	ReasonInternalFailure = "internal failure"
)

// ResolutionConfig holds orchestrator settings
type ResolutionConfig struct {
	VisionMode VisionMode
}

// resolveState is shared by the passes of one resolution
type resolveState struct {
	barcode     string
	market      domain.Market
	located     domain.LocateResult
	productName string
}

// passResult is what one extraction pass produced
type passResult struct {
	name        string
	fields      domain.ExtractedFields
	productName string
}

// pass runs one extraction attempt. false means it had nothing to work with.
type pass struct {
	name string
	run  func(ctx context.Context, st *resolveState) (passResult, bool)
}

// ResolutionService composes the image cascade, text acquisition and field
// extraction into one record per barcode and market
type ResolutionService struct {
	locator  *ImageLocator
	acquirer *TextAcquirer
	engine   *extraction.Engine
	vision   domain.VisionExtractor
	queries  *QueryBuilder
	config   ResolutionConfig
	passes   []pass
	logger   *zap.Logger
}

// NewResolutionService wires the orchestrator. vision may be nil.
func NewResolutionService(
	locator *ImageLocator,
	acquirer *TextAcquirer,
	engine *extraction.Engine,
	vision domain.VisionExtractor,
	queries *QueryBuilder,
	config ResolutionConfig,
	logger *zap.Logger,
) *ResolutionService {
	if engine == nil {
		engine = extraction.NewEngine()
	}
	if queries == nil {
		queries = NewQueryBuilder(DefaultTrustedDomains, DefaultBlockedDomains)
	}
	if config.VisionMode == "" {
		config.VisionMode = VisionOff
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ResolutionService{
		locator:  locator,
		acquirer: acquirer,
		engine:   engine,
		vision:   vision,
		queries:  queries,
		config:   config,
		logger:   logger,
	}

	if vision != nil && config.VisionMode == VisionFirst {
		s.passes = append(s.passes, pass{name: PassVision, run: s.visionPass})
	}
	s.passes = append(s.passes,
		pass{name: PassPage, run: s.pagePass},
		pass{name: PassSnippets, run: s.snippetPass},
	)
	if vision != nil && config.VisionMode == VisionFallback {
		s.passes = append(s.passes, pass{name: PassVision, run: s.visionPass})
	}

	return s
}

// Resolve produces the nutrition record for barcode in market. It never
// fails: every problem is reported through the record's status.
func (s *ResolutionService) Resolve(ctx context.Context, barcode string, market domain.Market) domain.NutritionRecord {
	barcode = strings.TrimSpace(barcode)
	record := domain.NewRecord(barcode, market.Code)

	if barcode == "" {
		record.Status = domain.Missing(ReasonEmptyBarcode)
		record.StatusDetail = ReasonEmptyBarcode
		return record
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		record = s.resolve(ctx, barcode, market)
	})
	if r := catcher.Recovered(); r != nil {
		s.logger.Error("Resolution panicked",
			zap.String("barcode", barcode),
			zap.Error(r.AsError()))
		record = domain.NewRecord(barcode, market.Code)
		record.Status = domain.Failed(ReasonInternalFailure)
		record.StatusDetail = ReasonInternalFailure
	}

	return record
}

func (s *ResolutionService) resolve(ctx context.Context, barcode string, market domain.Market) domain.NutritionRecord {
	record := domain.NewRecord(barcode, market.Code)
	st := &resolveState{barcode: barcode, market: market}

	if s.locator != nil {
		st.located = s.locator.Locate(ctx, barcode, market)
	}
	st.productName = st.located.ProductName

	if st.located.Found {
		record.ImageURL = st.located.URL
		record.SourceURL = domain.OrSentinel(st.located.SourcePageURL)
	}

	var results []passResult
	winner := -1
	for _, p := range s.passes {
		if ctx.Err() != nil {
			break
		}
		res, ok := p.run(ctx, st)
		if !ok {
			continue
		}
		res.name = p.name
		if st.productName == "" && !domain.IsSentinel(res.productName) {
			st.productName = res.productName
		}

		s.logger.Debug("Pass complete",
			zap.String("barcode", barcode),
			zap.String("pass", p.name),
			zap.Int("fields", res.fields.Populated()),
			zap.Bool("ingredients", res.fields.HasIngredients()))

		results = append(results, res)
		if res.fields.HasIngredients() {
			winner = len(results) - 1
			break
		}
		if winner < 0 || res.fields.Populated() > results[winner].fields.Populated() {
			winner = len(results) - 1
		}
	}

	fields := domain.EmptyFields()
	if winner >= 0 && results[winner].fields.Populated() > 0 {
		fields = results[winner].fields
		record.InfoSource = results[winner].name
		// A pass with ingredients is kept whole so its header and values stay
		// on the same basis. Otherwise the other passes fill its gaps.
		if !fields.HasIngredients() {
			for i, res := range results {
				if i != winner {
					fields = fields.Merge(res.fields)
				}
			}
		}
	}

	record.ExtractedFields = fields.Normalize()
	record.ProductName = domain.OrSentinel(st.productName)

	switch {
	case ctx.Err() != nil:
		record.Status = domain.Failed(ctx.Err().Error())
		record.StatusDetail = ctx.Err().Error()
	case st.located.Found || fields.Populated() > 0:
		record.Found = true
		record.Status = domain.Found()
		record.StatusDetail = describe(st.located, record.InfoSource)
	default:
		record.Status = domain.Missing(domain.NoDataFound)
		record.StatusDetail = domain.NoDataFound
	}

	s.logger.Info("Barcode resolved",
		zap.String("barcode", barcode),
		zap.String("market", market.Code),
		zap.String("status", record.Status.String()),
		zap.String("image_strategy", st.located.Strategy),
		zap.String("info_source", record.InfoSource),
		zap.Int("fields", record.ExtractedFields.Populated()))

	return record
}

func describe(located domain.LocateResult, infoSource string) string {
	image := "none"
	if located.Found {
		image = located.Strategy
	}
	if domain.IsSentinel(infoSource) {
		infoSource = "none"
	}
	return fmt.Sprintf("image: %s, fields: %s", image, infoSource)
}

// visionPass reads the located image with the vision model
func (s *ResolutionService) visionPass(ctx context.Context, st *resolveState) (passResult, bool) {
	if s.vision == nil || !st.located.Found {
		return passResult{}, false
	}

	res, err := s.vision.ExtractFromImage(ctx, st.located.URL, st.market.Language)
	if err != nil || res == nil {
		s.logger.Debug("Vision pass failed", zap.String("barcode", st.barcode), zap.Error(err))
		return passResult{}, false
	}
	return passResult{fields: res.Fields.Normalize(), productName: res.ProductName}, true
}

// pagePass scrapes the page the image came from
func (s *ResolutionService) pagePass(ctx context.Context, st *resolveState) (passResult, bool) {
	if s.acquirer == nil || st.located.SourcePageURL == "" {
		return passResult{}, false
	}

	blob := s.acquirer.FromPage(ctx, st.located.SourcePageURL)
	if blob == "" {
		return passResult{}, false
	}
	return passResult{fields: s.engine.Extract(blob, st.market.Language)}, true
}

// snippetPass searches for label text around the barcode
func (s *ResolutionService) snippetPass(ctx context.Context, st *resolveState) (passResult, bool) {
	if s.acquirer == nil {
		return passResult{}, false
	}

	query := s.queries.TextFallback(st.barcode, st.productName, st.market.Language)
	blob := s.acquirer.FromQuery(ctx, query, st.market)
	if blob == "" {
		return passResult{}, false
	}
	return passResult{fields: s.engine.Extract(blob, st.market.Language)}, true
}
