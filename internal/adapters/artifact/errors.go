package artifact

import "errors"

// Sentinel kinds for artifact loading errors. All of these are fatal at
// startup; the service cannot answer queries without valid artifacts.
var (
	ErrOpen       = errors.New("artifact open failed")
	ErrBadMagic   = errors.New("similarity matrix has bad magic")
	ErrBadVersion = errors.New("unsupported similarity matrix version")
	ErrTruncated  = errors.New("similarity matrix truncated")
	ErrEmpty      = errors.New("catalog is empty")
	ErrDimension  = errors.New("matrix dimension does not match catalog size")
	ErrScore      = errors.New("invalid similarity score")
	ErrDiagonal   = errors.New("diagonal entry is not maximal for its row")
)
