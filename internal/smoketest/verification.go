package smoketest

import (
	"context"
	"fmt"
	"log"
	"reflect"
)

// verifyResults checks every successful query against the recommendation
// contract: bounded result count, descending scores, query excluded, and a
// poster URL on every entry.
func verifyResults(ctx context.Context, config *Config, catalogSize int, results []QueryResult, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	checked := 0
	for _, result := range results {
		if result.Err != "" {
			continue
		}
		checked++

		if err := verifySingleResult(catalogSize, result); err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  %q: %v", result.Title, err)
		}
	}

	if checked == 0 {
		return fmt.Errorf("no successful queries to verify")
	}

	if stats.VerificationErrors == 0 {
		log.Printf("✅ All %d query results verified", checked)
	}
	return nil
}

// verifySingleResult applies the per-query invariants.
func verifySingleResult(catalogSize int, result QueryResult) error {
	recs := result.Results

	// Result count: capped at 12, and at catalog-1 for small catalogs.
	expected := 12
	if avail := catalogSize - 1; expected > avail {
		expected = avail
	}
	if len(recs) != expected {
		return fmt.Errorf("expected %d results, got %d", expected, len(recs))
	}

	for i, rec := range recs {
		if rec.Title == result.Title {
			return fmt.Errorf("result %d echoes the queried title", i)
		}
		if rec.Rank != i+1 {
			return fmt.Errorf("result %d has rank %d", i, rec.Rank)
		}
		if rec.PosterURL == "" {
			return fmt.Errorf("result %d has no poster URL", i)
		}
		if i > 0 && rec.Score > recs[i-1].Score {
			return fmt.Errorf("scores not descending at position %d", i)
		}
	}

	return nil
}

// verifyDeterminism re-queries a handful of titles and demands identical
// ranked titles and scores. Poster URLs may legitimately differ between
// calls (placeholder on a transient fetch failure), so they are ignored.
func verifyDeterminism(ctx context.Context, config *Config, results []QueryResult, stats *Stats) error {
	log.Println("🔁 Re-querying a sample to check determinism...")

	client := newHTTPClient(config.Timeout)

	rechecked := 0
	for _, result := range results {
		if result.Err != "" {
			continue
		}
		if rechecked == DeterminismSample {
			break
		}
		rechecked++
		stats.DeterminismRechecks++

		again, err := fetchRecommendations(ctx, client, config.BaseURL, result.Title)
		if err != nil {
			stats.VerificationErrors++
			log.Printf("⚠️  recheck of %q failed: %v", result.Title, err)
			continue
		}

		if !sameRanking(result.Results, again) {
			stats.VerificationErrors++
			log.Printf("⚠️  %q returned a different ranking on recheck", result.Title)
		}
	}

	if rechecked > 0 && stats.VerificationErrors == 0 {
		log.Printf("✅ %d rechecked queries were deterministic", rechecked)
	}
	return nil
}

// sameRanking compares two result lists ignoring poster URLs.
func sameRanking(a, b []Recommendation) bool {
	strip := func(recs []Recommendation) []Recommendation {
		out := make([]Recommendation, len(recs))
		copy(out, recs)
		for i := range out {
			out[i].PosterURL = ""
		}
		return out
	}
	return reflect.DeepEqual(strip(a), strip(b))
}
