package client

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/FashtimeDotCom/feedwalk/pkg/feed"
	"github.com/FashtimeDotCom/feedwalk/pkg/walker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for walk operations.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedwalk_pages_fetched_total",
		Help: "Total feed pages fetched and parsed",
	})

	entriesParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedwalk_entries_parsed_total",
		Help: "Total feed entries parsed from fetched pages",
	})
)

// FeedPage fetches one feed page and parses it into entries plus the
// locator of the following page. It satisfies walker.FetchFunc, making
// the client directly usable as the walker's fetch capability.
func (c *Client) FeedPage(ctx context.Context, loc walker.Locator) (walker.Page[feed.Entry], error) {
	pageURL := string(loc)

	resp, err := c.Get(ctx, pageURL)
	if err != nil {
		return walker.Page[feed.Entry]{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return walker.Page[feed.Entry]{}, &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			ErrorClass: c.classifyError(resp, nil),
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return walker.Page[feed.Entry]{}, fmt.Errorf("read page body: %w", err)
	}

	doc, err := feed.Parse(body)
	if err != nil {
		return walker.Page[feed.Entry]{}, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	page, err := doc.Page(pageURL)
	if err != nil {
		return walker.Page[feed.Entry]{}, err
	}

	pagesFetchedTotal.Inc()
	entriesParsedTotal.Add(float64(len(page.Items)))

	c.logger.Debug().
		Str("url", pageURL).
		Int("entries", len(page.Items)).
		Str("next", string(page.Next)).
		Msg("Parsed feed page")

	return page, nil
}

// WalkOptions configures a feed walk.
type WalkOptions struct {
	// Params are query parameters applied to the first page request.
	Params *feed.PageParams

	// MaxPages bounds the walk; exceeding it surfaces
	// walker.ErrPageLimit. 0 means unbounded.
	MaxPages int

	// Prefetch fetches each next page in the background while the
	// current page is consumed.
	Prefetch bool
}

// Walk returns a lazy sequence of all entries reachable from feedURL,
// following rel="next" links page by page. Pages are fetched only as
// the returned sequence is consumed; breaking out stops all fetching.
func (c *Client) Walk(ctx context.Context, feedURL string, opts WalkOptions) iter.Seq2[feed.Entry, error] {
	start := feedURL
	if opts.Params != nil {
		applied, err := opts.Params.Apply(feedURL)
		if err != nil {
			return func(yield func(feed.Entry, error) bool) {
				yield(feed.Entry{}, err)
			}
		}
		start = applied
	}

	fetch := walker.FetchFunc[feed.Entry](c.FeedPage)
	if opts.MaxPages > 0 {
		fetch = walker.WithPageLimit(fetch, opts.MaxPages)
	}
	if opts.Prefetch {
		fetch = walker.WithPrefetch(fetch)
	}

	return walker.Walk(ctx, walker.Locator(start), fetch)
}
