// Package recommend implements the top-N similarity lookup over the
// catalog store.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/reelrank/reelrank/internal/adapters/repository"
	"github.com/reelrank/reelrank/internal/domain/model"
	"github.com/reelrank/reelrank/pkg/metrics"
)

// Default lookup configuration constants.
const (
	defaultResultCount = 12
)

// Recommender ranks catalog movies by similarity to a queried title.
type Recommender interface {
	// Recommend returns up to the configured number of neighbors for title,
	// ordered by descending similarity. The queried movie is never part of
	// the result. Unknown titles yield repository.ErrNotFound.
	Recommend(ctx context.Context, title string) ([]model.Neighbor, error)
}

// MatrixRecommender implements Recommender over a repository.Store.
type MatrixRecommender struct {
	store repository.Store
	count int
}

// New creates a MatrixRecommender with configuration options.
func New(store repository.Store, opts ...Option) *MatrixRecommender {
	r := &MatrixRecommender{
		store: store,
		count: defaultResultCount,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Recommend ranks all other catalog movies against title.
//
// The sort is stable and descends by score, so equal scores keep their
// relative catalog order and repeated calls over the same artifacts return
// the identical sequence.
func (r *MatrixRecommender) Recommend(ctx context.Context, title string) ([]model.Neighbor, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	}()

	row, self, err := r.store.Row(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup for %q: %w", title, err)
	}

	order := make([]int, len(row))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	limit := r.count
	if avail := len(row) - 1; limit > avail {
		// Small catalogs return every other movie instead of failing.
		limit = avail
	}

	neighbors := make([]model.Neighbor, 0, limit)
	for _, idx := range order {
		if idx == self {
			// Exclude the queried movie by index; the diagonal usually sorts
			// first but that is not relied upon.
			continue
		}
		movie, err := r.store.MovieAt(ctx, idx)
		if err != nil {
			return nil, fmt.Errorf("resolving catalog index %d: %w", idx, err)
		}
		neighbors = append(neighbors, model.Neighbor{
			Index: idx,
			Movie: movie,
			Score: row[idx],
		})
		if len(neighbors) == limit {
			break
		}
	}

	return neighbors, nil
}

// ResultCount returns the configured maximum result count.
func (r *MatrixRecommender) ResultCount() int {
	return r.count
}
