package domain

import "errors"

var (
	// ErrProductNotFound is returned when a provider has no entry for a barcode or query
	ErrProductNotFound = errors.New("product not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrProviderFailure is returned when an external provider request fails
	ErrProviderFailure = errors.New("provider request failed")

	// ErrProviderNotConfigured is returned when a provider has no credentials
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrImageRejected is returned when an image cannot be probed or decoded
	ErrImageRejected = errors.New("image rejected")

	// ErrVisionUnavailable is returned when the vision model gives no usable answer
	ErrVisionUnavailable = errors.New("vision extraction unavailable")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
