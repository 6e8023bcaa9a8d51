package app

import (
	"context"
	"testing"

	"github.com/macrolens/datahunter/config"
	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig(cacheType string) *config.Config {
	return &config.Config{
		Cache:    config.CacheConfig{Type: cacheType},
		Gemini:   config.GeminiConfig{VisionMode: "off"},
		Matching: config.MatchingConfig{MinRatio: 0.3, MaxRatio: 2.5},
		SerpAPI:  config.SerpAPIConfig{RatePerSecond: 1},
	}
}

func TestBuild_WithoutProviders(t *testing.T) {
	container, err := Build(context.Background(), offlineConfig("none"), nil)
	require.NoError(t, err)
	defer container.Close()

	require.NotNil(t, container.Resolver)
	assert.Empty(t, container.closers)

	record := container.Resolver.Resolve(context.Background(), "4006381333931", domain.LookupMarket("DE"))
	assert.False(t, record.Found)
	assert.Equal(t, domain.Missing(domain.NoDataFound), record.Status)
}

func TestBuild_MemoryCache(t *testing.T) {
	container, err := Build(context.Background(), offlineConfig("memory"), nil)
	require.NoError(t, err)

	assert.Len(t, container.closers, 1)
	container.Close()
	assert.Empty(t, container.closers)
	container.Close()
}

func TestBuild_RedisFallsBackToMemory(t *testing.T) {
	cfg := offlineConfig("redis")
	cfg.Cache.RedisURL = "redis://127.0.0.1:1"

	container, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer container.Close()

	assert.Len(t, container.closers, 1)
}

func TestBuild_VisionWithoutKeyIsDisabled(t *testing.T) {
	cfg := offlineConfig("none")
	cfg.Gemini.VisionMode = string(usecase.VisionFirst)

	container, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, container.Resolver)
}

func TestBuild_NilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestDomainList(t *testing.T) {
	defaults := []string{"a.com"}

	assert.Equal(t, defaults, domainList(nil, defaults))
	assert.Equal(t, defaults, domainList([]string{" ", ""}, defaults))
	assert.Equal(t, []string{"b.com", "ebay."}, domainList([]string{" b.com ", "ebay."}, defaults))
}
