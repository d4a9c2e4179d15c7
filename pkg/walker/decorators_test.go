package walker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithPageLimit_CyclicChain(t *testing.T) {
	source := newFakeSource(map[Locator]Page[string]{
		"p1": {Items: []string{"a"}, Next: "p2"},
		"p2": {Items: []string{"b"}, Next: "p1"},
	})

	fetch := WithPageLimit(source.Fetch, 4)

	items, err := Collect(Walk(context.Background(), "p1", fetch))
	if err == nil {
		t.Fatal("expected ErrPageLimit on cyclic chain")
	}
	if !errors.Is(err, ErrPageLimit) {
		t.Errorf("error = %v, want ErrPageLimit", err)
	}
	if len(items) != 4 {
		t.Errorf("got %d items before limit, want 4", len(items))
	}
}

func TestWithPageLimit_UnderLimit(t *testing.T) {
	source := newFakeSource(threePages())

	items, err := Collect(Walk(context.Background(), "p1", WithPageLimit(source.Fetch, 10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("got %d items, want 5", len(items))
	}
}

func TestWithPageLimit_Disabled(t *testing.T) {
	source := newFakeSource(threePages())

	if _, err := Collect(Walk(context.Background(), "p1", WithPageLimit(source.Fetch, 0))); err != nil {
		t.Fatalf("limit 0 should disable the guard, got: %v", err)
	}
}

func TestWithPrefetch_Ordering(t *testing.T) {
	source := newFakeSource(threePages())

	got, err := Collect(Walk(context.Background(), "p1", WithPrefetch(source.Fetch)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWithPrefetch_ServesLookahead(t *testing.T) {
	source := newFakeSource(threePages())
	fetch := WithPrefetch(source.Fetch)

	page, err := fetch(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Next != "p2" {
		t.Fatalf("page.Next = %q, want p2", page.Next)
	}

	// The lookahead for p2 runs in the background; the follow-up call
	// must consume it rather than fetch again.
	deadline := time.Now().Add(2 * time.Second)
	for source.count("p2") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := source.count("p2"); n != 1 {
		t.Fatalf("p2 prefetched %d times, want 1", n)
	}

	if _, err := fetch(context.Background(), "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := source.count("p2"); n != 1 {
		t.Errorf("p2 fetched %d times after serving lookahead, want 1", n)
	}
}

func TestWithPrefetch_ErrorSurfacesOnDemand(t *testing.T) {
	source := newFakeSource(map[Locator]Page[string]{
		"p1": {Items: []string{"a"}, Next: "p2"},
	})
	fetchErr := errors.New("boom")
	source.failOn("p2", fetchErr)

	items, err := Collect(Walk(context.Background(), "p1", WithPrefetch(source.Fetch)))
	if len(items) != 1 || items[0] != "a" {
		t.Errorf("items before failure = %v, want [a]", items)
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error = %v, want wrapped %v", err, fetchErr)
	}
}
