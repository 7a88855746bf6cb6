// Package resilience groups the fault-tolerance building blocks used by the
// listing read path and the cache warmer.
//
// The package tree provides:
//   - retry: timeout-bounded attempts with capped exponential backoff
//   - circuitbreaker: gobreaker wrappers that shed load from a failing database
//
// Usage Example:
//
//	rows, err := retry.Do(ctx, "listings.featured", retry.DBConfig(),
//	    func(ctx context.Context) ([]*entity.Listing, error) {
//	        return repo.ListFeatured(ctx, 12)
//	    })
package resilience
