// Package testutil provides testing utilities for feedwalk.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock feed endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockFeed is a configurable mock feed server for testing. Handlers are
// keyed by request URI (path plus query), so paginated chains where
// pages differ only in query parameters route correctly.
type MockFeed struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	counts   map[string]int

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockFeed creates a new mock feed server.
func NewMockFeed() *MockFeed {
	mock := &MockFeed{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		counts:   make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.RequestURI()

		mock.mu.Lock()
		mock.RequestCount++
		mock.counts[uri]++
		mock.LastRequestHeader = r.Header.Clone()

		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[uri]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFeed) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFeed) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockFeed) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.counts = make(map[string]int)
}

// SetHandler sets a custom handler for a request URI.
func (m *MockFeed) SetHandler(uri string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[uri] = handler
}

// SetResponse configures a simple response for a request URI.
func (m *MockFeed) SetResponse(uri string, resp MockResponse) {
	m.SetHandler(uri, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/atom+xml")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetChain installs a paginated feed at basePath. Page 1 answers at
// basePath itself; page N at basePath?page=N. Every page except the
// last carries a rel="next" link to its successor. pages holds the
// entry titles per page.
func (m *MockFeed) SetChain(basePath string, pages [][]string) {
	for i, titles := range pages {
		uri := basePath
		if i > 0 {
			uri = fmt.Sprintf("%s?page=%d", basePath, i+1)
		}

		next := ""
		if i < len(pages)-1 {
			next = fmt.Sprintf("%s?page=%d", basePath, i+2)
		}

		m.SetResponse(uri, MockResponse{
			StatusCode: http.StatusOK,
			Body:       AtomPage(fmt.Sprintf("page %d", i+1), next, titles),
		})
	}
}

// PathCount returns how many requests hit a request URI.
func (m *MockFeed) PathCount(uri string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[uri]
}

// GetRequestCount returns the total number of requests served.
func (m *MockFeed) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests seen.
func (m *MockFeed) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// AtomPage builds a minimal Atom document with the given entry titles
// and an optional rel="next" href.
func AtomPage(title, next string, entryTitles []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", xmlEscape(title))
	b.WriteString("  <updated>2024-01-01T00:00:00Z</updated>\n")
	if next != "" {
		fmt.Fprintf(&b, `  <link rel="next" href="%s"/>`+"\n", xmlEscape(next))
	}
	for i, t := range entryTitles {
		b.WriteString("  <entry>\n")
		fmt.Fprintf(&b, "    <id>urn:mock:%s:%d</id>\n", xmlEscape(title), i)
		fmt.Fprintf(&b, "    <title>%s</title>\n", xmlEscape(t))
		b.WriteString("    <updated>2024-01-01T00:00:00Z</updated>\n")
		b.WriteString("  </entry>\n")
	}
	b.WriteString("</feed>\n")
	return b.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
