// Package cache provides a Redis-backed cache for fetched feed pages
// with validator support for conditional revalidation.
package cache

import (
	"net/http"
	"time"
)

// Entry is one cached feed page response.
type Entry struct {
	// Data is the raw response body (the feed document)
	Data []byte `json:"data"`

	// ETag validator for If-None-Match revalidation
	ETag string `json:"etag"`

	// LastModified validator for If-Modified-Since revalidation
	LastModified time.Time `json:"last_modified"`

	// Expires is when the entry goes stale (from Cache-Control/Expires)
	Expires time.Time `json:"expires"`

	// StatusCode of the cached response
	StatusCode int `json:"status_code"`

	// Headers of the cached response
	Headers http.Header `json:"headers"`

	// CachedAt is when the entry was stored
	CachedAt time.Time `json:"cached_at"`
}

// IsFresh reports whether the entry can be served without revalidation.
func (e *Entry) IsFresh() bool {
	return time.Now().Before(e.Expires)
}

// TTL returns the time until the entry goes stale, 0 if already stale.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// HasValidators reports whether the entry carries an ETag or
// Last-Modified value usable for a conditional request.
func (e *Entry) HasValidators() bool {
	return e.ETag != "" || !e.LastModified.IsZero()
}
