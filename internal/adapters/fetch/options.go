package fetch

import "github.com/reelrank/reelrank/pkg/logger"

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithCapacity sets the queue capacity.
func WithCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// PoolOption applies a configuration option to the Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of concurrent fetch workers.
func WithWorkers(count int) PoolOption {
	return func(p *Pool) {
		if count > 0 {
			p.count = count
		}
	}
}

// WithPoolLogger sets a custom logger for the pool.
func WithPoolLogger(log logger.Logger) PoolOption {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}
