// Package metrics provides the centralized Prometheus metrics registry
// for the feed walker. All metrics are defined in their respective
// packages (client, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the feed walker.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Politeness Metrics (pkg/ratelimit):
//   - feedwalk_host_blocks_total{host} (Counter): Requests blocked inside a Retry-After window
//   - feedwalk_host_throttles_total{host} (Counter): Requests delayed to honor the minimum interval
//   - feedwalk_retry_after_seconds (Histogram): Retry-After windows announced by origins
//
// Cache Metrics (pkg/cache):
//   - feedwalk_page_cache_hits_total (Counter): Page cache hits
//   - feedwalk_page_cache_misses_total (Counter): Page cache misses
//   - feedwalk_revalidations_total (Counter): 304 Not Modified responses
//   - feedwalk_conditional_requests_total (Counter): Conditional requests sent with validators
//   - feedwalk_page_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - feedwalk_requests_total{host, status} (Counter): Total requests by host and HTTP status
//   - feedwalk_request_duration_seconds{host} (Histogram): Request duration by host
//   - feedwalk_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - feedwalk_retries_total{error_class} (Counter): Retry attempts by error class
//   - feedwalk_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - feedwalk_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Walk Metrics (pkg/client):
//   - feedwalk_pages_fetched_total (Counter): Feed pages fetched and parsed
//   - feedwalk_entries_parsed_total (Counter): Feed entries parsed from pages
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(feedwalk_page_cache_hits_total[5m])) /
//   (sum(rate(feedwalk_page_cache_hits_total[5m])) + sum(rate(feedwalk_page_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(feedwalk_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(feedwalk_request_duration_seconds_bucket[5m]))
//
//   # Revalidation Rate
//   rate(feedwalk_revalidations_total[5m]) / rate(feedwalk_requests_total[5m])
//
//   # Entries per Page
//   rate(feedwalk_entries_parsed_total[5m]) / rate(feedwalk_pages_fetched_total[5m])
