package smoketest

import "time"

// Config holds configuration for the recommendation smoke test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumQueries int           // Number of titles to query
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the query report
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Recommendation mirrors one entry of the recommendations response
type Recommendation struct {
	Rank      int     `json:"rank"`
	Title     string  `json:"title"`
	MovieID   int64   `json:"movie_id"`
	Score     float64 `json:"score"`
	PosterURL string  `json:"poster_url"`
}

// QueryResult captures one recommendation lookup and its outcome
type QueryResult struct {
	QueryID string           `json:"query_id"`
	Title   string           `json:"title"`
	Results []Recommendation `json:"results"`
	Elapsed string           `json:"elapsed"`
	Err     string           `json:"error,omitempty"`
}

// titlesResponse mirrors GET /api/v1/titles
type titlesResponse struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// recommendationsResponse mirrors GET /api/v1/recommendations
type recommendationsResponse struct {
	Title   string           `json:"title"`
	Results []Recommendation `json:"results"`
}

// Stats holds test statistics
type Stats struct {
	CatalogTitles       int
	QueriesIssued       int
	QueriesSuccessful   int
	QueriesFailed       int
	VerificationErrors  int
	DeterminismRechecks int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
