// Package types contains common types used across the application
package types

// Recommendation is one entry of a served recommendation list.
type Recommendation struct {
	Rank      int     `json:"rank"`
	Title     string  `json:"title"`
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"score"`
	PosterURL string  `json:"poster_url"`
}
