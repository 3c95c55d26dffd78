package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound   = errors.New("title not found")
	ErrOutOfRange = errors.New("catalog index out of range")
	ErrDimension  = errors.New("similarity matrix dimension mismatch")
	ErrDuplicate  = errors.New("duplicate title in catalog")
)
