// Package feed parses Atom feed documents and exposes their paginated
// structure: entries in document order plus the rel="next" link that
// chains archive pages together (RFC 5005).
package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/FashtimeDotCom/feedwalk/pkg/walker"
)

// Link is one atom:link element.
type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

// Entry is a single feed entry.
type Entry struct {
	ID      string
	Title   string
	Updated time.Time
	Link    string
	Summary string
	Content string
}

// Feed is a parsed Atom feed page.
type Feed struct {
	Title   string
	Updated time.Time
	Links   []Link
	Entries []Entry
}

// atomFeed mirrors the Atom document structure for decoding.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Updated string      `xml:"updated"`
	Links   []Link      `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
	Links   []Link `xml:"link"`
	Summary string `xml:"summary"`
	Content string `xml:"content"`
}

// Parse decodes an Atom document. Entry order is preserved. Timestamps
// that fail to parse are left at their zero value rather than failing
// the whole document; feeds in the wild are not reliably well-formed.
func Parse(data []byte) (*Feed, error) {
	var doc atomFeed
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}
	if doc.XMLName.Local != "feed" {
		return nil, fmt.Errorf("parse atom feed: unexpected root element %q", doc.XMLName.Local)
	}

	feed := &Feed{
		Title:   doc.Title,
		Updated: parseTime(doc.Updated),
		Links:   doc.Links,
		Entries: make([]Entry, 0, len(doc.Entries)),
	}

	for _, e := range doc.Entries {
		feed.Entries = append(feed.Entries, Entry{
			ID:      e.ID,
			Title:   e.Title,
			Updated: parseTime(e.Updated),
			Link:    alternateLink(e.Links),
			Summary: e.Summary,
			Content: e.Content,
		})
	}

	return feed, nil
}

// parseTime accepts the RFC 3339 timestamps Atom mandates.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// alternateLink picks the entry's primary link: rel="alternate" wins,
// then a link with no rel at all (Atom treats a missing rel as
// alternate).
func alternateLink(links []Link) string {
	for _, l := range links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Rel == "" {
			return l.Href
		}
	}
	return ""
}

// NextLink returns the href of the rel="next" link, or "" when this is
// the final page of the chain.
func (f *Feed) NextLink() string {
	for _, l := range f.Links {
		if l.Rel == "next" {
			return l.Href
		}
	}
	return ""
}

// ResolveNext returns the rel="next" link resolved against base, so
// relative hrefs become fetchable absolute URLs. An unparseable href is
// an error: silently dropping it would truncate the chain.
func (f *Feed) ResolveNext(base string) (string, error) {
	next := f.NextLink()
	if next == "" {
		return "", nil
	}

	nextURL, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("parse next link %q: %w", next, err)
	}
	if nextURL.IsAbs() {
		return next, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	return baseURL.ResolveReference(nextURL).String(), nil
}

// Page converts the feed into a walker page, resolving the next link
// against base.
func (f *Feed) Page(base string) (walker.Page[Entry], error) {
	next, err := f.ResolveNext(base)
	if err != nil {
		return walker.Page[Entry]{}, err
	}
	return walker.Page[Entry]{
		Items: f.Entries,
		Next:  walker.Locator(next),
	}, nil
}
