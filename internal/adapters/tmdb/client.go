// Package tmdb fetches poster image URLs from the TMDB metadata API.
//
// The client never fails a recommendation: any error on the way to a
// poster URL (HTTP failure, timeout, open breaker, missing poster_path)
// degrades to the configured placeholder image.
package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/reelrank/reelrank/pkg/logger"
	"github.com/reelrank/reelrank/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL        = "https://api.themoviedb.org/3"
	defaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	defaultPlaceholderURL = "https://via.placeholder.com/500x750.png?text=Poster+Unavailable"
	defaultTimeout        = 5 * time.Second
	defaultRatePerSecond  = 40 // TMDB's documented courtesy limit
	defaultRateBurst      = 10
	defaultBreakerName    = "tmdb"
	defaultFailureLimit   = 5
	defaultBreakerTimeout = 30 * time.Second
)

// Breaker state gauge values.
const (
	breakerClosed   = 0
	breakerHalfOpen = 1
	breakerOpen     = 2
)

// Fetcher resolves a poster URL for an external movie id.
type Fetcher interface {
	// PosterURL returns the w500 poster URL for the movie, or the
	// placeholder when the poster cannot be resolved. It never fails.
	PosterURL(ctx context.Context, movieID int64) string

	// Placeholder returns the configured placeholder image URL.
	Placeholder() string
}

// Client implements Fetcher against the TMDB REST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	imageBaseURL   string
	apiKey         string
	placeholderURL string
	failureLimit   uint32
	breakerTimeout time.Duration

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	log     logger.Logger
}

// movieResponse mirrors the subset of TMDB's movie details payload we use.
type movieResponse struct {
	PosterPath string `json:"poster_path"`
}

// NewClient creates a TMDB client with configuration options.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: defaultTimeout},
		baseURL:        defaultBaseURL,
		imageBaseURL:   defaultImageBaseURL,
		apiKey:         apiKey,
		placeholderURL: defaultPlaceholderURL,
		failureLimit:   defaultFailureLimit,
		breakerTimeout: defaultBreakerTimeout,
		limiter:        rate.NewLimiter(rate.Limit(defaultRatePerSecond), defaultRateBurst),
		log:            logger.Get().Named("tmdb"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    defaultBreakerName,
		Timeout: c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.failureLimit
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(breakerGauge(to))
			c.log.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return c
}

// PosterURL resolves the poster for movieID, degrading to the placeholder
// on any failure.
func (c *Client) PosterURL(ctx context.Context, movieID int64) string {
	start := time.Now()
	url, err := c.breaker.Execute(func() (string, error) {
		return c.fetch(ctx, movieID)
	})
	metrics.RecordPosterFetchLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordPosterFetchFailure()
		metrics.RecordErrorByComponent("tmdb", "fetch_failed")
		c.log.Warn(ctx, "poster fetch failed, using placeholder",
			logger.Any("movieID", movieID),
			logger.Error(err),
		)
		return c.placeholderURL
	}

	metrics.RecordPosterFetchSuccess()
	return url
}

// Placeholder returns the configured placeholder image URL.
func (c *Client) Placeholder() string {
	return c.placeholderURL
}

// fetch performs one TMDB movie details call.
func (c *Client) fetch(ctx context.Context, movieID int64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRateLimit, err)
	}

	url := fmt.Sprintf("%s/movie/%d?api_key=%s&language=en-US", c.baseURL, movieID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building tmdb request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tmdb request for movie %d: %w", movieID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d for movie %d", ErrStatus, resp.StatusCode, movieID)
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return "", fmt.Errorf("decoding tmdb response for movie %d: %w", movieID, err)
	}
	if movie.PosterPath == "" {
		return "", fmt.Errorf("%w: movie %d", ErrNoPoster, movieID)
	}

	return c.imageBaseURL + movie.PosterPath, nil
}

// breakerGauge maps gobreaker states onto the metrics gauge values.
func breakerGauge(s gobreaker.State) int {
	switch s {
	case gobreaker.StateOpen:
		return breakerOpen
	case gobreaker.StateHalfOpen:
		return breakerHalfOpen
	default:
		return breakerClosed
	}
}
