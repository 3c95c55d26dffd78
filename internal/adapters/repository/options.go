// Package repository defines the catalog/similarity store interface and errors.
package repository

// Option applies a configuration option to the MatrixStore.
type Option func(*MatrixStore)

// WithMetrics enables or disables query latency metrics recording.
func WithMetrics(enabled bool) Option {
	return func(s *MatrixStore) {
		s.metricsEnabled = enabled
	}
}
