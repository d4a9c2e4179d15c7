package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks page cache hits
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedwalk_page_cache_hits_total",
			Help: "Total number of feed page cache hits",
		},
	)

	// Misses tracks page cache misses
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedwalk_page_cache_misses_total",
			Help: "Total number of feed page cache misses",
		},
	)

	// Revalidations tracks 304 Not Modified responses to conditional requests
	Revalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedwalk_page_revalidations_total",
			Help: "Total number of 304 Not Modified responses for cached pages",
		},
	)

	// ConditionalRequests tracks requests sent with validators attached
	ConditionalRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedwalk_conditional_requests_total",
			Help: "Total number of conditional requests sent with If-None-Match or If-Modified-Since",
		},
	)

	// Errors tracks cache operation errors
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedwalk_page_cache_errors_total",
			Help: "Total number of page cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
