package fetch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reelrank/reelrank/internal/adapters/tmdb"
	"github.com/reelrank/reelrank/internal/domain/postercache"
	"github.com/reelrank/reelrank/pkg/logger"
	"github.com/reelrank/reelrank/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultWorkerCount = 6
)

// Pool runs a fixed set of workers that drain the job queue and resolve
// poster URLs through the cache and the TMDB fetcher.
type Pool struct {
	queue   Queue
	fetcher tmdb.Fetcher
	cache   postercache.Cache
	count   int
	log     logger.Logger

	active atomic.Int64
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
	runs   bool
}

// NewPool creates a worker pool with configuration options.
func NewPool(queue Queue, fetcher tmdb.Fetcher, cache postercache.Cache, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:   queue,
		fetcher: fetcher,
		cache:   cache,
		count:   defaultWorkerCount,
		log:     logger.Get().Named("fetch"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start launches the workers. It returns immediately; workers run until
// Stop is called or the context is cancelled.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.runs {
		return
	}
	p.runs = true

	ctx, p.cancel = context.WithCancel(ctx)
	metrics.UpdateWorkerCount(p.count)
	metrics.UpdateWorkerActiveCount(0)

	jobs := p.queue.Dequeue(ctx)
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(ctx, jobs)
	}

	p.log.Info(ctx, "poster fetch pool started", logger.Int("workers", p.count))
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.runs {
		p.mu.Unlock()
		return
	}
	p.runs = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	metrics.UpdateWorkerCount(0)
	metrics.UpdateWorkerActiveCount(0)
}

// ResolveAll fills one poster URL per movie id, in the same order as ids.
// Slots whose job cannot be enqueued fall back to the placeholder so a
// saturated queue degrades responses instead of failing them.
func (p *Pool) ResolveAll(ctx context.Context, ids []int64) []string {
	out := make([]string, len(ids))
	var wg sync.WaitGroup

	for slot, id := range ids {
		wg.Add(1)
		j := Job{MovieID: id, Slot: slot, out: out, wg: &wg}
		if !p.queue.Enqueue(ctx, j) {
			out[slot] = p.fetcher.Placeholder()
			wg.Done()
			p.log.Warn(ctx, "poster job rejected, using placeholder",
				logger.Any("movieID", id),
			)
		}
	}

	wg.Wait()
	return out
}

// run is the worker loop.
func (p *Pool) run(ctx context.Context, jobs <-chan Job) {
	defer p.wg.Done()

	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				return
			}
			p.process(ctx, j)
		case <-ctx.Done():
			return
		}
	}
}

// process resolves one job slot: cache first, TMDB on miss.
func (p *Pool) process(ctx context.Context, j Job) {
	metrics.UpdateWorkerActiveCount(int(p.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(p.active.Add(-1)))
	}()

	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if url, ok := p.cache.Get(ctx, j.MovieID); ok {
		j.out[j.Slot] = url
		j.wg.Done()
		return
	}

	url := p.fetcher.PosterURL(ctx, j.MovieID)
	if url != p.fetcher.Placeholder() {
		// Placeholders are never cached so transient failures heal.
		p.cache.Put(ctx, j.MovieID, url)
	} else {
		metrics.RecordWorkerError()
	}

	j.out[j.Slot] = url
	j.wg.Done()
}
