package usecase

import (
	"context"

	"github.com/macrolens/datahunter/internal/domain"
	"go.uber.org/zap"
)

// Default acceptance band for product photos
const (
	DefaultMinWidth = 200
	DefaultMinRatio = 0.3
	DefaultMaxRatio = 2.5
)

// ValidatorConfig holds the image acceptance thresholds
type ValidatorConfig struct {
	MinWidth int     // width must be strictly greater
	MinRatio float64 // width/height lower bound, inclusive
	MaxRatio float64 // width/height upper bound, inclusive
}

// ImageValidator decides whether a candidate URL is a usable product photo
type ImageValidator struct {
	prober domain.ImageProber
	config ValidatorConfig
	logger *zap.Logger
}

// NewImageValidator creates a validator. Zero thresholds take the defaults.
func NewImageValidator(prober domain.ImageProber, config ValidatorConfig, logger *zap.Logger) *ImageValidator {
	if config.MinWidth <= 0 {
		config.MinWidth = DefaultMinWidth
	}
	if config.MinRatio <= 0 {
		config.MinRatio = DefaultMinRatio
	}
	if config.MaxRatio <= 0 {
		config.MaxRatio = DefaultMaxRatio
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageValidator{prober: prober, config: config, logger: logger}
}

// IsAcceptable probes url and checks its dimensions. Any failure rejects.
func (v *ImageValidator) IsAcceptable(ctx context.Context, url string) bool {
	if v == nil || v.prober == nil || url == "" {
		return false
	}

	dims, err := v.prober.Probe(ctx, url)
	if err != nil {
		v.logger.Debug("Image probe failed", zap.String("url", url), zap.Error(err))
		return false
	}

	ok := v.accepts(dims)
	v.logger.Debug("Image checked",
		zap.String("url", url),
		zap.Int("width", dims.Width),
		zap.Int("height", dims.Height),
		zap.Bool("accepted", ok))
	return ok
}

func (v *ImageValidator) accepts(dims domain.ImageDimensions) bool {
	if dims.Height <= 0 || dims.Width <= v.config.MinWidth {
		return false
	}
	ratio := float64(dims.Width) / float64(dims.Height)
	return ratio >= v.config.MinRatio && ratio <= v.config.MaxRatio
}
