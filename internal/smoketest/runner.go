package smoketest

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/reelrank/reelrank/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete recommendation smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting reelrank smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("queries", config.NumQueries),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Fetch the catalog titles
	client := newHTTPClient(config.Timeout)
	titles, err := fetchTitles(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("title listing failed: %w", err)
	}
	if len(titles) == 0 {
		return fmt.Errorf("service returned an empty catalog")
	}
	stats.CatalogTitles = len(titles)
	log.Printf("🎬 Catalog holds %d titles", len(titles))

	// Step 3: Sample titles and query them concurrently
	sample := sampleTitles(titles, config.NumQueries)
	results := queryTitles(ctx, config, sample, stats)

	// Step 4: Verify recommendation properties
	if err := verifyResults(ctx, config, len(titles), results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Re-query a few titles and check determinism
	if err := verifyDeterminism(ctx, config, results, stats); err != nil {
		return fmt.Errorf("determinism verification failed: %w", err)
	}

	// Step 6: Save the query report
	if err := saveReport(ctx, config, results); err != nil {
		logger.Get().Warn(ctx, "failed to save query report", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if stats.QueriesFailed > 0 || stats.VerificationErrors > 0 {
		return fmt.Errorf("smoke test found %d failed queries and %d verification errors",
			stats.QueriesFailed, stats.VerificationErrors)
	}

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// sampleTitles picks up to n distinct titles, uniformly without replacement.
func sampleTitles(titles []string, n int) []string {
	if n <= 0 || n >= len(titles) {
		out := make([]string, len(titles))
		copy(out, titles)
		return out
	}

	sample := make([]string, 0, n)
	for _, idx := range rand.Perm(len(titles))[:n] { //nolint:gosec // sampling, not crypto
		sample = append(sample, titles[idx])
	}
	return sample
}

// queryTitles looks up recommendations for every sampled title using a
// worker pool, mirroring how a burst of front-end users would hit the API.
func queryTitles(ctx context.Context, config *Config, sample []string, stats *Stats) []QueryResult {
	log.Printf("📤 Querying %d titles with %d workers...", len(sample), config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		issued     int64
		successful int64
		failed     int64
	)

	results := make([]QueryResult, len(sample))

	type job struct {
		slot  int
		title string
	}
	jobChan := make(chan job, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					start := time.Now()
					recs, err := fetchRecommendations(ctx, client, config.BaseURL, j.title)

					result := QueryResult{
						QueryID: uuid.NewString(),
						Title:   j.title,
						Results: recs,
						Elapsed: time.Since(start).String(),
					}

					atomic.AddInt64(&issued, 1)
					if err != nil {
						result.Err = err.Error()
						atomic.AddInt64(&failed, 1)
					} else {
						atomic.AddInt64(&successful, 1)
					}
					results[j.slot] = result

					if config.Verbose {
						log.Printf("📊 Progress: %d/%d queried (success: %d, failed: %d)",
							atomic.LoadInt64(&issued), len(sample),
							atomic.LoadInt64(&successful), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	// Send jobs to workers
	go func() {
		defer close(jobChan)
		for slot, title := range sample {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job{slot: slot, title: title}:
			}
		}
	}()

	wg.Wait()

	stats.QueriesIssued = int(atomic.LoadInt64(&issued))
	stats.QueriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.QueriesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Query phase completed:
   Successful: %d
   Failed: %d
`, stats.QueriesSuccessful, stats.QueriesFailed)

	return results
}

// saveReport saves the query results to a JSON file.
func saveReport(ctx context.Context, config *Config, results []QueryResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "smoke_report_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := marshalJSON(results)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, queriesPerSecond float64

	if stats.QueriesIssued > 0 {
		successRate = float64(stats.QueriesSuccessful) / float64(stats.QueriesIssued) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesIssued) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("catalogTitles", stats.CatalogTitles),
		logger.Int("queriesIssued", stats.QueriesIssued),
		logger.Int("queriesSuccessful", stats.QueriesSuccessful),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("verificationErrors", stats.VerificationErrors),
		logger.Int("determinismRechecks", stats.DeterminismRechecks),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
