// Package repository defines the catalog/similarity store interface and errors.
package repository

import (
	"context"

	"github.com/reelrank/reelrank/internal/domain/model"
)

// Store provides read access to the loaded catalog and similarity matrix.
// Implementations are immutable after construction; the read path needs no
// locking.
type Store interface {
	// Row returns the similarity row and catalog index for the given title.
	// Returns ErrNotFound if the title is not in the catalog.
	Row(ctx context.Context, title string) ([]float64, int, error)

	// MovieAt returns the catalog entry at the given position.
	// Returns ErrOutOfRange for invalid positions.
	MovieAt(ctx context.Context, index int) (model.Movie, error)

	// Titles returns all catalog titles in catalog order.
	Titles(ctx context.Context) []string

	// Count returns the number of movies in the catalog.
	Count(ctx context.Context) int
}
