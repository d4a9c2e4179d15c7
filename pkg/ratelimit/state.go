// Package ratelimit implements per-host politeness for feed fetching.
// It tracks Retry-After deadlines from 429/503 responses and enforces a
// minimum interval between requests to the same host, so repeated walks
// over paginated feeds do not hammer their origin.
package ratelimit

import (
	"time"
)

// redisKeyPrefix namespaces per-host state in Redis. State is shared
// across processes the same way the page cache is.
const redisKeyPrefix = "feedwalk:ratelimit:"

// DefaultRetryAfter is the backoff applied when a 429 or 503 response
// carries no usable Retry-After header.
const DefaultRetryAfter = 60 * time.Second

// HostState is the politeness state for a single host.
type HostState struct {
	// RetryAfter is the deadline before which no request may be sent,
	// taken from a 429/503 Retry-After header. Zero when unblocked.
	RetryAfter time.Time `json:"retry_after"`

	// LastRequest is when the host was last contacted.
	LastRequest time.Time `json:"last_request"`

	// LastUpdate is when this state was last written.
	LastUpdate time.Time `json:"last_update"`
}

// Blocked reports whether the host is inside a Retry-After window.
func (s *HostState) Blocked() bool {
	return time.Now().Before(s.RetryAfter)
}

// BlockRemaining returns the time left in the Retry-After window,
// 0 when the host is not blocked.
func (s *HostState) BlockRemaining() time.Duration {
	remaining := time.Until(s.RetryAfter)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SinceLastRequest returns the time elapsed since the host was last
// contacted. A zero LastRequest reports a very large duration so the
// first request is never paced.
func (s *HostState) SinceLastRequest() time.Duration {
	if s.LastRequest.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return time.Since(s.LastRequest)
}

// IsStale reports whether the state is older than maxAge.
func (s *HostState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}
