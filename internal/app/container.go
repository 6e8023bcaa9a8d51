package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/macrolens/datahunter/config"
	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/extraction"
	"github.com/macrolens/datahunter/internal/infrastructure/cache"
	"github.com/macrolens/datahunter/internal/infrastructure/gemini"
	"github.com/macrolens/datahunter/internal/infrastructure/goupc"
	"github.com/macrolens/datahunter/internal/infrastructure/imageprobe"
	"github.com/macrolens/datahunter/internal/infrastructure/serpapi"
	"github.com/macrolens/datahunter/internal/infrastructure/webpage"
	"github.com/macrolens/datahunter/internal/usecase"
	"go.uber.org/zap"
)

// Container bundles the assembled pipeline for the server and the CLI
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Resolver *usecase.ResolutionService

	closers []func()
}

// Close releases the cache connections in reverse construction order
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build wires providers, validators and the orchestrator from cfg.
// Providers without an API key are left out and the pipeline degrades.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	container = &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			container.Close()
			container = nil
		}
	}()

	store := buildCache(cfg.Cache, logger, container)
	ttl := cfg.Cache.TTL

	// Providers
	var lookup domain.BarcodeLookup
	if config.Enabled(cfg.GoUPC.APIKey) {
		lookup = goupc.NewClient(cfg.GoUPC.APIKey, cfg.GoUPC.BaseURL, store, ttl, logger)
	} else {
		logger.Warn("go-upc not configured, barcode lookup disabled")
	}

	var images domain.ImageSearcher
	var text domain.TextSearcher
	if config.Enabled(cfg.SerpAPI.APIKey) {
		serp := serpapi.NewClient(serpapi.Config{
			APIKey:        cfg.SerpAPI.APIKey,
			BaseURL:       cfg.SerpAPI.BaseURL,
			RatePerSecond: cfg.SerpAPI.RatePerSecond,
			Burst:         cfg.SerpAPI.Burst,
			CacheTTL:      ttl,
		}, store, logger)
		images, text = serp, serp
	} else {
		logger.Warn("SerpAPI not configured, image and text search disabled")
	}

	var vision domain.VisionExtractor
	mode := usecase.VisionMode(cfg.Gemini.VisionMode)
	if mode != usecase.VisionOff {
		extractor, verr := gemini.NewVisionExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if verr != nil {
			logger.Warn("Vision pass disabled", zap.Error(verr))
			mode = usecase.VisionOff
		} else {
			vision = extractor
		}
	}

	// Usecases
	validator := usecase.NewImageValidator(imageprobe.NewProber(store, ttl, logger), usecase.ValidatorConfig{
		MinWidth: cfg.Matching.MinWidth,
		MinRatio: cfg.Matching.MinRatio,
		MaxRatio: cfg.Matching.MaxRatio,
	}, logger)

	trusted := domainList(cfg.Matching.TrustedDomains, usecase.DefaultTrustedDomains)
	blocked := domainList(cfg.Matching.BlockedDomains, usecase.DefaultBlockedDomains)

	locator := usecase.NewImageLocator(lookup, images, validator, usecase.LocatorConfig{
		MaxCandidates:  cfg.Matching.MaxCandidates,
		TrustedDomains: trusted,
		BlockedDomains: blocked,
	}, logger)

	acquirer := usecase.NewTextAcquirer(webpage.NewFetcher(logger), text, usecase.AcquirerConfig{
		MaxBlobLength: cfg.Extraction.MaxBlobLength,
		MaxSnippets:   cfg.Extraction.MaxSnippets,
	}, logger)

	container.Resolver = usecase.NewResolutionService(
		locator,
		acquirer,
		extraction.NewEngine(),
		vision,
		usecase.NewQueryBuilder(trusted, blocked),
		usecase.ResolutionConfig{VisionMode: mode},
		logger,
	)

	logger.Info("Pipeline assembled",
		zap.String("cache", cfg.Cache.Type),
		zap.Bool("lookup", lookup != nil),
		zap.Bool("search", images != nil),
		zap.String("vision_mode", string(mode)),
		zap.Int("trusted_domains", len(trusted)),
		zap.Int("blocked_domains", len(blocked)))

	return container, nil
}

// buildCache returns the configured cache, or nil for "none". A Redis
// connection failure falls back to memory rather than failing startup.
func buildCache(cfg config.CacheConfig, logger *zap.Logger, container *Container) domain.CacheRepository {
	switch cfg.Type {
	case "none":
		return nil
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, logger)
		if err == nil {
			container.closers = append(container.closers, func() { _ = redisCache.Close() })
			return redisCache
		}
		logger.Warn("Redis unavailable, falling back to memory cache", zap.Error(err))
	}

	memoryCache := cache.NewMemoryCache()
	container.closers = append(container.closers, func() { _ = memoryCache.Close() })
	return memoryCache
}

// domainList trims the configured list, falling back to defaults when empty
func domainList(configured, defaults []string) []string {
	out := make([]string, 0, len(configured))
	for _, d := range configured {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}
