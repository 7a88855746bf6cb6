// Package metrics holds the process-wide Prometheus metrics shared by the API
// and the cache warmer: HTTP traffic, database access and listing reads.
//
// All metrics are registered with the default registry and exposed via the
// /metrics endpoint. Package-specific metrics (retry, cache stores, circuit
// breakers) live next to the code that records them.
//
//	start := time.Now()
//	listings, err := repo.ListFeatured(ctx, limit)
//	metrics.RecordDBQuery("list_featured", time.Since(start))
package metrics
