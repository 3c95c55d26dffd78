// Package artifact loads the offline-produced catalog and similarity
// matrix into memory at startup.
//
// The catalog is a JSON array of {movie_id, title} records. The matrix is
// a small binary format: a 4-byte magic, a uint16 version, a uint32
// dimension, then dimension*dimension row-major little-endian float64
// scores. Both artifacts are produced by the offline vectorization
// pipeline, which is out of scope here.
package artifact

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Matrix format constants.
const (
	matrixVersion = 1
	headerSize    = 4 + 2 + 4 // magic + version + dimension
	float64Size   = 8
)

var matrixMagic = [4]byte{'S', 'I', 'M', 'M'}

// ReadMatrix decodes a similarity matrix from r, returning the row-major
// scores and the dimension.
func ReadMatrix(r io.Reader) ([]float64, int, error) {
	br := bufio.NewReader(r)

	var header [headerSize]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, 0, fmt.Errorf("%w: reading header: %v", ErrTruncated, err)
	}

	if [4]byte(header[:4]) != matrixMagic {
		return nil, 0, fmt.Errorf("%w: got %q", ErrBadMagic, header[:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != matrixVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}

	n := int(binary.LittleEndian.Uint32(header[6:10]))
	scores := make([]float64, n*n)

	buf := make([]byte, float64Size)
	for i := range scores {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, 0, fmt.Errorf("%w: at cell %d of %d: %v", ErrTruncated, i, len(scores), err)
		}
		scores[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}

	return scores, n, nil
}

// WriteMatrix encodes a row-major similarity matrix of dimension n to w.
// It is used by tests and offline tooling that prepares artifacts.
func WriteMatrix(w io.Writer, scores []float64, n int) error {
	if len(scores) != n*n {
		return fmt.Errorf("%w: %d cells for dimension %d", ErrDimension, len(scores), n)
	}

	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:4], matrixMagic[:])
	binary.LittleEndian.PutUint16(header[4:6], matrixVersion)
	binary.LittleEndian.PutUint32(header[6:10], uint32(n)) //nolint:gosec // dimension is bounded by catalog size
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("writing matrix header: %w", err)
	}

	buf := make([]byte, float64Size)
	for _, s := range scores {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(s))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("writing matrix cell: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing matrix: %w", err)
	}
	return nil
}
