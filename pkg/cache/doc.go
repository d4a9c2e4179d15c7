// Package cache provides feed page caching with a Redis backend.
//
// Walks over a paginated feed are one-shot streams: nothing is memoized
// by the walker itself, so every traversal re-fetches its pages. The
// cache sits below that contract, inside the HTTP fetch capability,
// and makes those re-fetches cheap:
//
// - Freshness from Cache-Control max-age or Expires, with a default TTL
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Stale entries with validators retained for revalidation
// - Prometheus metrics for observability
// - Deterministic cache keys from normalized page URLs
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{URL: "https://example.com/feed?page=2"}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// not cached - fetch the page
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	if entry.HasValidators() {
//		cache.AddValidators(req, entry)
//		// server answers 304 when the page is unchanged
//	}
//
// # Metrics
//
//   - feedwalk_page_cache_hits_total - Cache hits
//   - feedwalk_page_cache_misses_total - Cache misses
//   - feedwalk_page_revalidations_total - 304 responses
//   - feedwalk_conditional_requests_total - Conditional requests sent
//   - feedwalk_page_cache_errors_total{operation} - Operation errors
package cache
