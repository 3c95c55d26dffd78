package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrServe        = errors.New("api serve failed")
	ErrBadRequest   = errors.New("bad request")
	ErrMissingTitle = errors.New("missing title query parameter")
)
