// Package walker provides a lazy, demand-driven walker over paginated
// resources that chain pages together with next-page locators.
package walker

import (
	"context"
	"fmt"
	"iter"
)

// Locator is an opaque reference to one fetchable page of a paginated
// resource (typically a URL). The empty Locator means "no page".
type Locator string

// Page is one fetched unit of a paginated resource: its items in source
// order, plus the locator of the following page. An empty Next signals
// the end of the chain.
type Page[T any] struct {
	Items []T
	Next  Locator
}

// FetchFunc fetches a single page. Implementations own all transport,
// parsing, timeout and cancellation concerns; the walker only calls it
// when consumption demands a page that has not been fetched yet.
type FetchFunc[T any] func(ctx context.Context, loc Locator) (Page[T], error)

// Walk returns a lazy sequence of all items reachable from start,
// stitching successive pages into one ordered stream.
//
// Pages are fetched strictly on demand: the fetch for a page happens at
// the moment the consumer asks for its first item, and breaking out of
// the loop stops all further fetches. Within one traversal each locator
// in the chain is fetched exactly once. The sequence is a one-shot
// stream over an external resource: ranging over it again performs
// fresh fetches, nothing is cached by the walker.
//
// A fetch failure is yielded in-stream as a non-nil error (with the
// zero item value) and ends the sequence; items delivered before the
// failure remain valid.
//
// The walker performs no cycle detection. If a malformed chain points
// Next back at an already-visited locator the walk keeps fetching;
// callers that cannot trust their source can wrap fetch in
// WithPageLimit to fail explicitly instead.
func Walk[T any](ctx context.Context, start Locator, fetch FetchFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range Pages(ctx, start, fetch) {
			if err != nil {
				yield(*new(T), err)
				return
			}
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Pages is the page-granular variant of Walk: it yields whole pages in
// chain order instead of individual items. It shares Walk's laziness,
// error and single-use semantics. An empty start yields nothing.
func Pages[T any](ctx context.Context, start Locator, fetch FetchFunc[T]) iter.Seq2[Page[T], error] {
	return func(yield func(Page[T], error) bool) {
		loc := start
		for loc != "" {
			page, err := fetch(ctx, loc)
			if err != nil {
				yield(Page[T]{}, fmt.Errorf("fetch page %q: %w", loc, err))
				return
			}
			if !yield(page, nil) {
				return
			}
			loc = page.Next
		}
	}
}

// Collect drains seq into a slice. On an in-stream error it returns the
// items delivered so far together with that error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Take limits seq to at most n items. Errors still pass through; the
// underlying walk stops as soon as the limit is reached, so pages past
// the n-th item are never fetched.
func Take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for item, err := range seq {
			if !yield(item, err) {
				return
			}
			if err != nil {
				return
			}
			taken++
			if taken >= n {
				return
			}
		}
	}
}
