package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/reelrank/reelrank/internal/domain/model"
	"github.com/reelrank/reelrank/pkg/metrics"
)

// MatrixStore implements Store over an in-memory catalog and a dense
// row-major similarity matrix. Everything is built once in NewMatrixStore
// and never mutated afterwards.
type MatrixStore struct {
	movies  []model.Movie
	byTitle map[string]int
	// matrix is row-major: matrix[i*n+j] is the similarity between catalog
	// positions i and j.
	matrix []float64
	n      int

	metricsEnabled bool
}

// NewMatrixStore builds an immutable store from the catalog and matrix.
// The matrix must be square with dimension equal to the catalog size.
// Inputs are copied so callers cannot mutate the store afterwards.
func NewMatrixStore(ctx context.Context, movies []model.Movie, matrix []float64, opts ...Option) (*MatrixStore, error) {
	n := len(movies)
	if len(matrix) != n*n {
		return nil, fmt.Errorf("%w: catalog has %d movies, matrix has %d cells", ErrDimension, n, len(matrix))
	}

	s := &MatrixStore{
		movies:         make([]model.Movie, n),
		byTitle:        make(map[string]int, n),
		matrix:         make([]float64, len(matrix)),
		n:              n,
		metricsEnabled: true,
	}
	copy(s.movies, movies)
	copy(s.matrix, matrix)

	for i, m := range s.movies {
		if _, exists := s.byTitle[m.Title]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, m.Title)
		}
		s.byTitle[m.Title] = i
	}

	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateCatalogSize(n)
	return s, nil
}

// Row returns the similarity row and catalog index for the given title.
func (s *MatrixStore) Row(ctx context.Context, title string) ([]float64, int, error) {
	start := time.Now()
	defer func() {
		if s.metricsEnabled {
			metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
		}
	}()

	idx, ok := s.byTitle[title]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrNotFound, title)
	}

	// Copy the row so callers cannot reach into the shared matrix.
	row := make([]float64, s.n)
	copy(row, s.matrix[idx*s.n:(idx+1)*s.n])
	return row, idx, nil
}

// MovieAt returns the catalog entry at the given position.
func (s *MatrixStore) MovieAt(ctx context.Context, index int) (model.Movie, error) {
	if index < 0 || index >= s.n {
		return model.Movie{}, fmt.Errorf("%w: %d (catalog size %d)", ErrOutOfRange, index, s.n)
	}
	return s.movies[index], nil
}

// Titles returns all catalog titles in catalog order.
func (s *MatrixStore) Titles(ctx context.Context) []string {
	titles := make([]string, s.n)
	for i, m := range s.movies {
		titles[i] = m.Title
	}
	return titles
}

// Count returns the number of movies in the catalog.
func (s *MatrixStore) Count(ctx context.Context) int {
	return s.n
}
