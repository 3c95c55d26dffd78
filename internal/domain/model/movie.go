// Package model contains domain models passed between layers.
package model

// Movie is one catalog entry. Position in the catalog is the row/column
// index into the similarity matrix.
type Movie struct {
	MovieID int64  // external (TMDB) identifier used for poster lookups
	Title   string // exact display title; queries match against this
}

// Neighbor is a catalog movie ranked by similarity to a queried movie.
type Neighbor struct {
	Index int     // catalog position of the neighbor
	Movie Movie   // the neighbor itself
	Score float64 // similarity to the queried movie, higher is closer
}
