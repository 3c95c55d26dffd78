// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/reelrank/reelrank/internal/adapters/artifact"
	"github.com/reelrank/reelrank/internal/adapters/fetch"
	"github.com/reelrank/reelrank/internal/adapters/repository"
	"github.com/reelrank/reelrank/internal/adapters/tmdb"
	"github.com/reelrank/reelrank/internal/domain/postercache"
	"github.com/reelrank/reelrank/internal/domain/recommend"
	"github.com/reelrank/reelrank/internal/domain/types"
	"github.com/reelrank/reelrank/pkg/logger"
	"github.com/reelrank/reelrank/pkg/metrics"
)

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	recommender recommend.Recommender
	fetcher     tmdb.Fetcher
	cache       postercache.Cache
	fetchQueue  fetch.Queue
	fetchPool   *fetch.Pool

	// Configuration
	catalogPath    string
	matrixPath     string
	resultCount    int
	fetchWorkers   int
	fetchQueueSize int
	cacheSize      int
	tmdbOptions    []tmdb.Option
	tmdbAPIKey     string

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithArtifacts sets the catalog and matrix artifact paths.
func WithArtifacts(catalogPath, matrixPath string) Option {
	return func(s *Service) {
		if catalogPath != "" {
			s.catalogPath = catalogPath
		}
		if matrixPath != "" {
			s.matrixPath = matrixPath
		}
	}
}

// WithResultCount sets how many similar titles a lookup returns.
func WithResultCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.resultCount = count
		}
	}
}

// WithFetchWorkers sets the number of poster fetch workers.
func WithFetchWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.fetchWorkers = count
		}
	}
}

// WithFetchQueueSize bounds the poster fetch queue.
func WithFetchQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.fetchQueueSize = size
		}
	}
}

// WithCacheSize sets the size of the poster URL cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithTMDBAPIKey sets the TMDB API key.
func WithTMDBAPIKey(key string) Option {
	return func(s *Service) {
		s.tmdbAPIKey = key
	}
}

// WithTMDBOptions forwards options to the TMDB client built on Start.
func WithTMDBOptions(opts ...tmdb.Option) Option {
	return func(s *Service) {
		s.tmdbOptions = append(s.tmdbOptions, opts...)
	}
}

// WithFetcher replaces the TMDB client entirely (used by tests).
func WithFetcher(f tmdb.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalogPath:    "data/catalog.json",
		matrixPath:     "data/similarity.simm",
		resultCount:    12,
		fetchWorkers:   runtime.NumCPU(),
		fetchQueueSize: 1024,
		cacheSize:      10_000,
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the artifacts and initializes the service components.
// Artifact errors are returned as-is so the caller can treat them as fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	start := time.Now()
	movies, matrix, err := artifact.Load(ctx, s.catalogPath, s.matrixPath)
	if err != nil {
		return fmt.Errorf("loading artifacts: %w", err)
	}

	s.store, err = repository.NewMatrixStore(ctx, movies, matrix)
	if err != nil {
		return fmt.Errorf("building matrix store: %w", err)
	}
	s.logger.Info(ctx, "catalog loaded",
		logger.Int("movies", len(movies)),
		logger.Any("elapsed", time.Since(start).String()),
	)

	s.recommender = recommend.New(s.store,
		recommend.WithResultCount(s.resultCount),
	)

	if s.fetcher == nil {
		s.fetcher = tmdb.NewClient(s.tmdbAPIKey, s.tmdbOptions...)
	}
	s.cache = postercache.NewInMemoryCache(
		postercache.WithMaxSize(s.cacheSize),
	)
	s.fetchQueue = fetch.NewInMemoryQueue(
		fetch.WithCapacity(s.fetchQueueSize),
	)
	s.fetchPool = fetch.NewPool(s.fetchQueue, s.fetcher, s.cache,
		fetch.WithWorkers(s.fetchWorkers),
	)
	s.fetchPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("resultCount", s.resultCount),
		logger.Int("fetchWorkers", s.fetchWorkers),
		logger.Int("cacheSize", s.cacheSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")

	// Stop worker pool
	if s.fetchPool != nil {
		s.fetchPool.Stop()
	}

	// Close queue
	if q, ok := s.fetchQueue.(*fetch.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Recommend returns the ranked similar titles for the queried title, each
// with a resolved poster URL. A title missing from the catalog surfaces
// repository.ErrNotFound.
func (s *Service) Recommend(ctx context.Context, title string) ([]types.Recommendation, error) {
	neighbors, err := s.recommender.Recommend(ctx, title)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordUnknownTitle()
		}
		return nil, err
	}

	ids := make([]int64, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.Movie.MovieID
	}
	posters := s.fetchPool.ResolveAll(ctx, ids)

	recs := make([]types.Recommendation, len(neighbors))
	for i, n := range neighbors {
		recs[i] = types.Recommendation{
			Rank:      i + 1,
			Title:     n.Movie.Title,
			MovieID:   n.Movie.MovieID,
			Score:     n.Score,
			PosterURL: posters[i],
		}
	}

	metrics.RecordRecommendationServed()
	return recs, nil
}

// Titles returns every catalog title in index order, for the front-end
// dropdown.
func (s *Service) Titles(ctx context.Context) []string {
	return s.store.Titles(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"resultCount":  s.resultCount,
		"fetchWorkers": s.fetchWorkers,
		"cacheSize":    s.cacheSize,
	}

	if s.started {
		catalogSize := s.store.Count(ctx)
		cached := s.cache.Size()
		queueLen := s.fetchQueue.Len(ctx)

		stats["catalogSize"] = catalogSize
		stats["postersCached"] = cached
		stats["fetchQueueLength"] = queueLen

		// Update metrics
		metrics.UpdateCatalogSize(catalogSize)
		metrics.UpdatePosterCacheSize(cached)
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// CachedPosters returns the current number of cached poster URLs.
func (s *Service) CachedPosters() int64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Size()
}
