package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the freshness lifetime assumed when the server
	// sends no caching headers at all. Feeds are polled, not browsed;
	// a few minutes keeps repeat walks cheap without going stale.
	DefaultTTL = 5 * time.Minute

	// ValidatorRetention is how long an entry with validators is kept
	// beyond its freshness lifetime for conditional revalidation.
	ValidatorRetention = 24 * time.Hour
)

// ResponseToEntry converts an HTTP response into a cache entry. The
// response body is consumed and restored so the caller can still read
// it.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   time.Now(),
	}

	entry.Expires = freshnessDeadline(resp.Header)

	if lastModStr := resp.Header.Get("Last-Modified"); lastModStr != "" {
		if lastMod, err := http.ParseTime(lastModStr); err == nil {
			entry.LastModified = lastMod
		}
	}

	return entry, nil
}

// freshnessDeadline derives the expiry from response headers.
// Cache-Control max-age wins over Expires, matching HTTP semantics;
// with neither present the DefaultTTL applies.
func freshnessDeadline(headers http.Header) time.Time {
	if maxAge, ok := parseMaxAge(headers.Get("Cache-Control")); ok {
		return time.Now().Add(maxAge)
	}

	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return time.Now().Add(DefaultTTL)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return time.Now().Add(DefaultTTL)
	}
	if expires.Before(time.Now()) {
		return time.Now()
	}
	return expires
}

// parseMaxAge extracts the max-age directive from a Cache-Control
// header value. no-store and no-cache force an immediate expiry.
func parseMaxAge(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	for _, directive := range strings.Split(value, ",") {
		directive = strings.TrimSpace(strings.ToLower(directive))

		if directive == "no-store" || directive == "no-cache" {
			return 0, true
		}

		if seconds, ok := strings.CutPrefix(directive, "max-age="); ok {
			n, err := strconv.Atoi(seconds)
			if err != nil || n < 0 {
				return 0, false
			}
			return time.Duration(n) * time.Second, true
		}
	}

	return 0, false
}

// AddValidators attaches If-None-Match / If-Modified-Since headers from
// the entry to the request. ETag wins when both validators exist.
func AddValidators(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.Format(http.TimeFormat))
	}
}

// EntryToResponse rebuilds an HTTP response from a cached entry.
func EntryToResponse(entry *Entry) *http.Response {
	return &http.Response{
		StatusCode:    entry.StatusCode,
		Header:        entry.Headers.Clone(),
		Body:          io.NopCloser(bytes.NewReader(entry.Data)),
		ContentLength: int64(len(entry.Data)),
	}
}
