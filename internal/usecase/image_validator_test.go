package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNewImageValidator_Defaults(t *testing.T) {
	v := NewImageValidator(nil, ValidatorConfig{}, nil)

	assert.Equal(t, DefaultMinWidth, v.config.MinWidth)
	assert.Equal(t, DefaultMinRatio, v.config.MinRatio)
	assert.Equal(t, DefaultMaxRatio, v.config.MaxRatio)
}

func TestImageValidator_IsAcceptable(t *testing.T) {
	prober := NewMockImageProber().
		with("https://img.example/pixel.gif", 1, 1).
		with("https://img.example/pack.jpg", 800, 600).
		with("https://img.example/narrow.jpg", 200, 400).
		with("https://img.example/edge.jpg", 201, 100).
		with("https://img.example/banner.jpg", 1200, 300).
		with("https://img.example/tall.jpg", 300, 1000).
		with("https://img.example/zero.jpg", 500, 0)

	v := NewImageValidator(prober, ValidatorConfig{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"tracking pixel is rejected", "https://img.example/pixel.gif", false},
		{"regular product photo is accepted", "https://img.example/pack.jpg", true},
		{"width equal to minimum is rejected", "https://img.example/narrow.jpg", false},
		{"width just over minimum is accepted", "https://img.example/edge.jpg", true},
		{"banner wider than ratio band is rejected", "https://img.example/banner.jpg", false},
		{"tall photo inside the band is accepted", "https://img.example/tall.jpg", true},
		{"zero height is rejected", "https://img.example/zero.jpg", false},
		{"unknown image is rejected", "https://img.example/missing.jpg", false},
		{"empty url is rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsAcceptable(ctx, tt.url))
		})
	}
}

func TestImageValidator_RatioBoundsInclusive(t *testing.T) {
	prober := NewMockImageProber().
		with("https://img.example/upper.jpg", 500, 200).
		with("https://img.example/lower.jpg", 300, 1000)
	v := NewImageValidator(prober, ValidatorConfig{}, nil)

	assert.True(t, v.IsAcceptable(context.Background(), "https://img.example/upper.jpg"), "2.5 is inside the band")
	assert.True(t, v.IsAcceptable(context.Background(), "https://img.example/lower.jpg"), "0.3 is inside the band")
}

func TestImageValidator_ProbeFailureRejects(t *testing.T) {
	prober := NewMockImageProber().with("https://img.example/pack.jpg", 800, 600)
	prober.err = domain.ErrProviderFailure
	v := NewImageValidator(prober, ValidatorConfig{}, nil)

	assert.False(t, v.IsAcceptable(context.Background(), "https://img.example/pack.jpg"))
}

func TestImageValidator_TimeoutRejects(t *testing.T) {
	prober := NewMockImageProber().with("https://img.example/pack.jpg", 800, 600)
	v := NewImageValidator(prober, ValidatorConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	assert.False(t, v.IsAcceptable(ctx, "https://img.example/pack.jpg"))
}

func TestImageValidator_NilSafe(t *testing.T) {
	var v *ImageValidator
	assert.False(t, v.IsAcceptable(context.Background(), "https://img.example/pack.jpg"))

	noProber := NewImageValidator(nil, ValidatorConfig{}, nil)
	assert.False(t, noProber.IsAcceptable(context.Background(), "https://img.example/pack.jpg"))
}

func TestImageValidator_CustomThresholds(t *testing.T) {
	prober := NewMockImageProber().with("https://img.example/small.jpg", 150, 150)

	strict := NewImageValidator(prober, ValidatorConfig{}, nil)
	lenient := NewImageValidator(prober, ValidatorConfig{MinWidth: 100, MinRatio: 0.5, MaxRatio: 2}, nil)

	assert.False(t, strict.IsAcceptable(context.Background(), "https://img.example/small.jpg"))
	assert.True(t, lenient.IsAcceptable(context.Background(), "https://img.example/small.jpg"))
}
