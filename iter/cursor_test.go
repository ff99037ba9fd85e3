package iter

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/nordcache/segcontainer/entry"
)

func makeEntries(n int) []entry.Entry[string, int] {
	out := make([]entry.Entry[string, int], n)
	for i := 0; i < n; i++ {
		out[i] = entry.Entry[string, int]{Key: string(rune('a' + i)), Value: i}
	}
	return out
}

func TestCursorTryAdvanceVisitsInOrder(t *testing.T) {
	c := NewCursor(makeEntries(3))

	var seen []int
	for {
		ok := c.TryAdvance(func(e entry.Entry[string, int]) bool {
			seen = append(seen, e.Value)
			return true
		})
		if !ok {
			break
		}
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Fatalf("unexpected traversal order: %v", seen)
	}
}

func TestCursorForEachRemainingConsumesAll(t *testing.T) {
	c := NewCursor(makeEntries(5))
	c.TryAdvance(func(entry.Entry[string, int]) bool { return true })

	var count int
	c.ForEachRemaining(func(entry.Entry[string, int]) { count++ })
	if count != 4 {
		t.Fatalf("expected 4 remaining entries, got %d", count)
	}
	if c.EstimateSize() != 0 {
		t.Fatalf("expected cursor exhausted, got estimate %d", c.EstimateSize())
	}
}

func TestCursorSplitPreservesEveryEntryExactlyOnce(t *testing.T) {
	c := NewCursor(makeEntries(6))
	left, ok := c.Split()
	if !ok {
		t.Fatal("expected a 6-entry cursor to split")
	}

	seen := map[int]bool{}
	left.ForEachRemaining(func(e entry.Entry[string, int]) { seen[e.Value] = true })
	c.ForEachRemaining(func(e entry.Entry[string, int]) { seen[e.Value] = true })

	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct entries across the split, got %d", len(seen))
	}
}

func TestCursorSplitRefusesTooSmallRemainder(t *testing.T) {
	c := NewCursor(makeEntries(1))
	if _, ok := c.Split(); ok {
		t.Fatal("expected split to refuse a single-entry cursor")
	}
}

func TestCursorSeq2StopsOnFalseReturn(t *testing.T) {
	c := NewCursor(makeEntries(5))

	var visited int
	for range c.Seq2() {
		visited++
		if visited == 2 {
			break
		}
	}
	if visited != 2 {
		t.Fatalf("expected exactly 2 visits before early exit, got %d", visited)
	}
}

func TestForEachParallelVisitsEveryEntryExactlyOnce(t *testing.T) {
	c := NewCursor(makeEntries(50))

	var mu sync.Mutex
	var seen []int
	err := ForEachParallel(context.Background(), c, func(e entry.Entry[string, int]) {
		mu.Lock()
		seen = append(seen, e.Value)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}

	sort.Ints(seen)
	if len(seen) != 50 {
		t.Fatalf("expected 50 visits, got %d", len(seen))
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("expected every entry visited exactly once, got %v", seen)
		}
	}
}
