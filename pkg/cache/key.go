package cache

import (
	"net/url"
	"strings"
)

// Key identifies a cached feed page by its URL.
type Key struct {
	// URL is the page URL as fetched
	URL string
}

// String generates a deterministic Redis key for the page URL.
// The URL is normalized (lowercased scheme and host, sorted query
// parameters, fragment dropped) so equivalent spellings share an entry.
//
// Format: feedwalk:page:<normalized-url>
func (k Key) String() string {
	return "feedwalk:page:" + normalizeURL(k.URL)
}

// normalizeURL canonicalizes a page URL for keying. Unparseable URLs
// are used verbatim; they still produce a stable key.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	// url.Values.Encode sorts by key
	u.RawQuery = u.Query().Encode()

	return u.String()
}
