package artifact

import (
	"context"
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"

	"github.com/reelrank/reelrank/internal/domain/model"
	"github.com/reelrank/reelrank/pkg/logger"
)

// diagonalTolerance absorbs float rounding in offline-produced matrices.
const diagonalTolerance = 1e-9

// catalogRecord mirrors the JSON shape of one catalog entry.
type catalogRecord struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
}

// LoadCatalog reads the catalog JSON file.
func LoadCatalog(ctx context.Context, path string) ([]model.Movie, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %v", ErrOpen, path, err)
	}

	var records []catalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	movies := make([]model.Movie, len(records))
	for i, rec := range records {
		movies[i] = model.Movie{MovieID: rec.MovieID, Title: rec.Title}
	}
	return movies, nil
}

// LoadMatrix reads the binary similarity matrix file.
func LoadMatrix(ctx context.Context, path string) ([]float64, int, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, 0, fmt.Errorf("%w: matrix %s: %v", ErrOpen, path, err)
	}
	defer func() { _ = f.Close() }()

	scores, n, err := ReadMatrix(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding matrix %s: %w", path, err)
	}
	return scores, n, nil
}

// Load reads both artifacts and cross-validates them. Any error here is
// fatal: the process must not serve queries over inconsistent artifacts.
func Load(ctx context.Context, catalogPath, matrixPath string) ([]model.Movie, []float64, error) {
	log := logger.Get().Named("artifact")

	movies, err := LoadCatalog(ctx, catalogPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "catalog loaded",
		logger.String("path", catalogPath),
		logger.Int("movies", len(movies)),
	)

	scores, n, err := LoadMatrix(ctx, matrixPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "similarity matrix loaded",
		logger.String("path", matrixPath),
		logger.Int("dimension", n),
	)

	if n != len(movies) {
		return nil, nil, fmt.Errorf("%w: matrix is %dx%d, catalog has %d movies",
			ErrDimension, n, n, len(movies))
	}
	if err := validateScores(scores, n); err != nil {
		return nil, nil, err
	}

	return movies, scores, nil
}

// validateScores rejects NaN scores and rows whose diagonal entry is not
// the row maximum (a movie must be maximally similar to itself).
func validateScores(scores []float64, n int) error {
	for i := 0; i < n; i++ {
		diag := scores[i*n+i]
		if math.IsNaN(diag) {
			return fmt.Errorf("%w: NaN at diagonal %d", ErrScore, i)
		}
		for j := 0; j < n; j++ {
			s := scores[i*n+j]
			if math.IsNaN(s) {
				return fmt.Errorf("%w: NaN at (%d,%d)", ErrScore, i, j)
			}
			if s > diag+diagonalTolerance {
				return fmt.Errorf("%w: row %d has score %f at column %d, diagonal is %f",
					ErrDiagonal, i, s, j, diag)
			}
		}
	}
	return nil
}
