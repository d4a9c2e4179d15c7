package feed

import (
	"strings"
	"testing"
	"time"
)

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Changelog</title>
  <updated>2024-03-01T12:00:00Z</updated>
  <link rel="self" href="https://example.com/feed"/>
  <link rel="next" href="https://example.com/feed?page=2"/>
  <entry>
    <id>urn:uuid:1</id>
    <title>First post</title>
    <updated>2024-03-01T12:00:00Z</updated>
    <link rel="alternate" href="https://example.com/posts/1"/>
    <summary>hello</summary>
  </entry>
  <entry>
    <id>urn:uuid:2</id>
    <title>Second post</title>
    <updated>2024-02-28T09:30:00Z</updated>
    <link href="https://example.com/posts/2"/>
    <content>full text</content>
  </entry>
</feed>`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Title != "Changelog" {
		t.Errorf("Title = %q, want Changelog", f.Title)
	}
	wantUpdated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !f.Updated.Equal(wantUpdated) {
		t.Errorf("Updated = %v, want %v", f.Updated, wantUpdated)
	}
	if len(f.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(f.Entries))
	}

	first := f.Entries[0]
	if first.ID != "urn:uuid:1" {
		t.Errorf("entry ID = %q, want urn:uuid:1", first.ID)
	}
	if first.Link != "https://example.com/posts/1" {
		t.Errorf("entry Link = %q, want alternate link", first.Link)
	}
	if first.Summary != "hello" {
		t.Errorf("entry Summary = %q, want hello", first.Summary)
	}

	// Link without rel counts as alternate.
	if second := f.Entries[1]; second.Link != "https://example.com/posts/2" {
		t.Errorf("entry Link = %q, want bare link treated as alternate", second.Link)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not xml", input: "{\"items\": []}"},
		{name: "wrong root", input: "<rss version=\"2.0\"><channel></channel></rss>"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("expected parse error, got nil")
			}
		})
	}
}

func TestParse_BadTimestampTolerated(t *testing.T) {
	doc := strings.ReplaceAll(sampleAtom, "2024-03-01T12:00:00Z", "yesterday-ish")

	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Updated.IsZero() {
		t.Errorf("Updated = %v, want zero time for malformed timestamp", f.Updated)
	}
}

func TestNextLink(t *testing.T) {
	f, err := Parse([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next := f.NextLink(); next != "https://example.com/feed?page=2" {
		t.Errorf("NextLink = %q", next)
	}

	terminal := strings.ReplaceAll(sampleAtom, `<link rel="next" href="https://example.com/feed?page=2"/>`, "")
	f2, err := Parse([]byte(terminal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next := f2.NextLink(); next != "" {
		t.Errorf("NextLink = %q, want empty for terminal page", next)
	}
}

func TestResolveNext(t *testing.T) {
	tests := []struct {
		name string
		href string
		base string
		want string
	}{
		{
			name: "absolute href kept",
			href: "https://other.example.org/feed?page=2",
			base: "https://example.com/feed",
			want: "https://other.example.org/feed?page=2",
		},
		{
			name: "relative href resolved",
			href: "/feed?page=2",
			base: "https://example.com/feed",
			want: "https://example.com/feed?page=2",
		},
		{
			name: "relative path resolved",
			href: "archive/2",
			base: "https://example.com/feeds/main",
			want: "https://example.com/feeds/archive/2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.ReplaceAll(sampleAtom, "https://example.com/feed?page=2", tt.href)
			f, err := Parse([]byte(doc))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := f.ResolveNext(tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveNext = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPage(t *testing.T) {
	f, err := Parse([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := f.Page("https://example.com/feed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("page has %d items, want 2", len(page.Items))
	}
	if string(page.Next) != "https://example.com/feed?page=2" {
		t.Errorf("page.Next = %q", page.Next)
	}
}

func TestPageParams_Apply(t *testing.T) {
	tests := []struct {
		name   string
		params PageParams
		rawURL string
		want   string
	}{
		{
			name:   "adds params",
			params: PageParams{PerPage: 50},
			rawURL: "https://example.com/feed",
			want:   "https://example.com/feed?per_page=50",
		},
		{
			name:   "overwrites existing",
			params: PageParams{Page: 3, PerPage: 10},
			rawURL: "https://example.com/feed?per_page=100",
			want:   "https://example.com/feed?page=3&per_page=10",
		},
		{
			name:   "zero params untouched",
			params: PageParams{},
			rawURL: "https://example.com/feed?tag=go",
			want:   "https://example.com/feed?tag=go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.Apply(tt.rawURL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply = %q, want %q", got, tt.want)
			}
		})
	}
}
