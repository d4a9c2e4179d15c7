package walker

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPageLimit is returned by a WithPageLimit fetch once the configured
// number of pages has been fetched.
var ErrPageLimit = errors.New("page limit exceeded")

// WithPageLimit wraps fetch so that at most max pages can be fetched.
// Exceeding the limit surfaces ErrPageLimit instead of silently ending
// the stream, so a chain that loops back on itself fails loudly rather
// than spinning forever or hiding legitimately re-listed pages.
//
// The returned FetchFunc counts fetches across its lifetime; create a
// fresh one per traversal. A max of 0 or less disables the limit.
func WithPageLimit[T any](fetch FetchFunc[T], max int) FetchFunc[T] {
	var (
		mu      sync.Mutex
		fetched int
	)
	return func(ctx context.Context, loc Locator) (Page[T], error) {
		mu.Lock()
		if max > 0 && fetched >= max {
			mu.Unlock()
			return Page[T]{}, fmt.Errorf("%w: %d pages fetched, refusing %q", ErrPageLimit, fetched, loc)
		}
		fetched++
		mu.Unlock()
		return fetch(ctx, loc)
	}
}

// prefetchResult holds the outcome of one background page fetch.
type prefetchResult[T any] struct {
	page Page[T]
	err  error
	done chan struct{}
}

// prefetcher keeps at most one page of lookahead per chain position.
type prefetcher[T any] struct {
	fetch FetchFunc[T]

	mu      sync.Mutex
	pending map[Locator]*prefetchResult[T]
}

// WithPrefetch wraps fetch so that after each page is delivered, its
// successor is fetched in the background. The consumer then finds the
// next page already in flight (or complete) when it crosses the page
// boundary, trading the walker's strict on-demand guarantee for lower
// latency: up to one page beyond what was consumed may be fetched.
//
// Use plain Walk when strict laziness matters more than throughput.
func WithPrefetch[T any](fetch FetchFunc[T]) FetchFunc[T] {
	p := &prefetcher[T]{
		fetch:   fetch,
		pending: make(map[Locator]*prefetchResult[T]),
	}
	return p.Fetch
}

// Fetch serves loc from the lookahead buffer when possible and always
// arms the next lookahead before returning a page.
func (p *prefetcher[T]) Fetch(ctx context.Context, loc Locator) (Page[T], error) {
	p.mu.Lock()
	pr, ok := p.pending[loc]
	if ok {
		delete(p.pending, loc)
	}
	p.mu.Unlock()

	if ok {
		select {
		case <-pr.done:
		case <-ctx.Done():
			return Page[T]{}, ctx.Err()
		}
		if pr.err != nil {
			return Page[T]{}, pr.err
		}
		p.start(pr.page.Next)
		return pr.page, nil
	}

	page, err := p.fetch(ctx, loc)
	if err != nil {
		return Page[T]{}, err
	}
	p.start(page.Next)
	return page, nil
}

// start launches a background fetch for loc unless one is already in
// flight. The background fetch is detached from the caller's context so
// it survives the return of the triggering call.
func (p *prefetcher[T]) start(loc Locator) {
	if loc == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[loc]; ok {
		return
	}

	pr := &prefetchResult[T]{done: make(chan struct{})}
	p.pending[loc] = pr

	go func() {
		defer close(pr.done)
		pr.page, pr.err = p.fetch(context.Background(), loc)
	}()
}
