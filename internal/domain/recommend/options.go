// Package recommend implements the top-N similarity lookup over the
// catalog store.
package recommend

// Option applies a configuration option to the MatrixRecommender.
type Option func(*MatrixRecommender)

// WithResultCount sets the maximum number of neighbors returned per query.
func WithResultCount(n int) Option {
	return func(r *MatrixRecommender) {
		if n > 0 {
			r.count = n
		}
	}
}
