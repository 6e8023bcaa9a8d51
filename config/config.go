package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	SerpAPI    SerpAPIConfig
	GoUPC      GoUPCConfig
	Gemini     GeminiConfig
	Cache      CacheConfig
	Matching   MatchingConfig
	Extraction ExtractionConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpAPIConfig holds search provider configuration
type SerpAPIConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// GoUPCConfig holds barcode database configuration
type GoUPCConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds vision model configuration
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	VisionMode string `mapstructure:"vision_mode"` // "off", "first" or "fallback"
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds image cascade and validation settings
type MatchingConfig struct {
	MinWidth       int      `mapstructure:"min_width"`
	MinRatio       float64  `mapstructure:"min_ratio"`
	MaxRatio       float64  `mapstructure:"max_ratio"`
	MaxCandidates  int      `mapstructure:"max_candidates"`
	TrustedDomains []string `mapstructure:"trusted_domains"`
	BlockedDomains []string `mapstructure:"blocked_domains"`
}

// ExtractionConfig holds text acquisition limits
type ExtractionConfig struct {
	MaxBlobLength int `mapstructure:"max_blob_length"`
	MaxSnippets   int `mapstructure:"max_snippets"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/datahunter/")

	// DATAHUNTER_SERPAPI_API_KEY maps to serpapi.api_key
	v.SetEnvPrefix("DATAHUNTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// that AutomaticEnv overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Provider defaults
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.rate_per_second", 1.0)
	v.SetDefault("serpapi.burst", 5)
	v.SetDefault("goupc.api_key", "")
	v.SetDefault("goupc.base_url", "https://go-upc.com")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.vision_mode", "off")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Matching defaults
	v.SetDefault("matching.min_width", 200)
	v.SetDefault("matching.min_ratio", 0.3)
	v.SetDefault("matching.max_ratio", 2.5)
	v.SetDefault("matching.max_candidates", 10)
	v.SetDefault("matching.trusted_domains", []string{})
	v.SetDefault("matching.blocked_domains", []string{})

	// Extraction defaults
	v.SetDefault("extraction.max_blob_length", 5000)
	v.SetDefault("extraction.max_snippets", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	switch config.Gemini.VisionMode {
	case "off", "first", "fallback":
	default:
		return fmt.Errorf("vision mode must be 'off', 'first' or 'fallback', got: %s", config.Gemini.VisionMode)
	}

	m := config.Matching
	if m.MinRatio <= 0 || m.MaxRatio < m.MinRatio {
		return fmt.Errorf("image ratio band is invalid: min %.2f, max %.2f", m.MinRatio, m.MaxRatio)
	}

	if config.SerpAPI.RatePerSecond <= 0 {
		return fmt.Errorf("serpapi rate_per_second must be positive, got: %v", config.SerpAPI.RatePerSecond)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// Enabled reports whether the given API key is set
func Enabled(apiKey string) bool {
	return strings.TrimSpace(apiKey) != ""
}
