package feed

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// PageParams are query parameters for the first page request. Servers
// that support them control page size and starting offset; every later
// page comes from the feed's own rel="next" link, which already carries
// whatever parameters the server wants.
type PageParams struct {
	Page    int `url:"page,omitempty"`
	PerPage int `url:"per_page,omitempty"`
}

// Apply merges the parameters into rawURL's query string. Existing
// query values with the same name are overwritten.
func (p PageParams) Apply(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	values, err := query.Values(p)
	if err != nil {
		return "", fmt.Errorf("encode page params: %w", err)
	}

	q := u.Query()
	for key, vals := range values {
		q.Del(key)
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
