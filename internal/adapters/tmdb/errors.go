package tmdb

import "errors"

// Sentinel kinds for TMDB client errors.
var (
	ErrStatus    = errors.New("tmdb returned non-OK status")
	ErrNoPoster  = errors.New("movie has no poster path")
	ErrRateLimit = errors.New("tmdb rate limit wait failed")
)
