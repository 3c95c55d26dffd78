// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// CatalogPath locates the JSON movie catalog artifact.
	CatalogPath string `koanf:"catalog_path" validate:"required"`

	// MatrixPath locates the binary similarity matrix artifact.
	MatrixPath string `koanf:"matrix_path" validate:"required"`

	// ResultCount sets how many similar titles a lookup returns.
	ResultCount int `koanf:"result_count" validate:"gt=0"`

	// TMDBAPIKey authenticates against the TMDB metadata API.
	TMDBAPIKey string `koanf:"tmdb_api_key"`

	// TMDBBaseURL overrides the TMDB API endpoint (tests, proxies).
	TMDBBaseURL string `koanf:"tmdb_base_url"`

	// TMDBImageBaseURL prefixes poster paths returned by TMDB.
	TMDBImageBaseURL string `koanf:"tmdb_image_base_url"`

	// PlaceholderURL is substituted when a poster cannot be fetched.
	PlaceholderURL string `koanf:"placeholder_url"`

	// TMDBTimeoutMS bounds a single poster metadata request.
	TMDBTimeoutMS int `koanf:"tmdb_timeout_ms" validate:"gt=0"`

	// TMDBRatePerSecond and TMDBRateBurst throttle outbound TMDB calls.
	TMDBRatePerSecond float64 `koanf:"tmdb_rate_per_second" validate:"gt=0"`
	TMDBRateBurst     int     `koanf:"tmdb_rate_burst" validate:"gt=0"`

	// BreakerFailures is the consecutive failure count that opens the
	// TMDB circuit; BreakerTimeoutMS is how long it stays open.
	BreakerFailures  int `koanf:"breaker_failures" validate:"gt=0"`
	BreakerTimeoutMS int `koanf:"breaker_timeout_ms" validate:"gt=0"`

	// PosterCacheSize bounds the in-memory poster URL cache.
	PosterCacheSize int `koanf:"poster_cache_size" validate:"gt=0"`

	// FetchWorkers sets the number of concurrent poster fetch workers.
	FetchWorkers int `koanf:"fetch_workers" validate:"gt=0"`

	// FetchQueueSize bounds the in-memory poster fetch queue.
	FetchQueueSize int `koanf:"fetch_queue_size" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		CatalogPath:       "data/catalog.json",
		MatrixPath:        "data/similarity.simm",
		ResultCount:       12,
		TMDBBaseURL:       "https://api.themoviedb.org/3",
		TMDBImageBaseURL:  "https://image.tmdb.org/t/p/w500",
		PlaceholderURL:    "https://via.placeholder.com/500x750.png?text=Poster+Unavailable",
		TMDBTimeoutMS:     5000,
		TMDBRatePerSecond: 40,
		TMDBRateBurst:     10,
		BreakerFailures:   5,
		BreakerTimeoutMS:  30_000,
		PosterCacheSize:   10_000,
		FetchWorkers:      runtime.NumCPU(),
		FetchQueueSize:    1024,
	}
}
