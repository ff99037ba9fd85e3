package eviction

import "testing"

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	p := New[string](LRU, 3)
	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c")
	p.OnGet("a") // a is now MRU, b is LRU

	k, ok := p.Evict()
	if !ok || k != "b" {
		t.Fatalf("expected to evict b, got %q ok=%v", k, ok)
	}
}

func TestLRUEmptyEvictReturnsFalse(t *testing.T) {
	p := New[string](LRU, 3)
	if _, ok := p.Evict(); ok {
		t.Fatal("expected no victim from an empty policy")
	}
}

func TestLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	p := New[string](LFU, 3)
	p.OnPut("a")
	p.OnPut("b")
	p.OnGet("a")
	p.OnGet("a")

	k, ok := p.Evict()
	if !ok || k != "b" {
		t.Fatalf("expected to evict b (freq 1), got %q ok=%v", k, ok)
	}
}

func TestFIFOEvictsInsertionOrder(t *testing.T) {
	p := New[string](FIFO, 3)
	p.OnPut("a")
	p.OnPut("b")
	p.OnGet("a") // FIFO ignores reads

	k, ok := p.Evict()
	if !ok || k != "a" {
		t.Fatalf("expected to evict a regardless of reads, got %q ok=%v", k, ok)
	}
}

func TestRemoveDropsBookkeeping(t *testing.T) {
	p := New[string](LRU, 3)
	p.OnPut("a")
	p.Remove("a")

	if _, ok := p.Evict(); ok {
		t.Fatal("expected no victim after the only key was removed")
	}
}

func TestTwoQPromotesOnSecondAccess(t *testing.T) {
	p := New[string](TwoQ, 8)
	p.OnPut("a")
	p.OnGet("a") // promotes a from A1in into Am
	p.OnPut("b")

	k, ok := p.Evict()
	if !ok || k != "b" {
		t.Fatalf("expected b (still in A1in) to be evicted before promoted a, got %q ok=%v", k, ok)
	}
}

func TestTwoQGhostPromotesOnReentry(t *testing.T) {
	p := New[string](TwoQ, 8) // capIn = 2
	p.OnPut("a")
	p.OnPut("b")
	p.OnPut("c") // A1in now over capacity: a is its LRU candidate

	victim, ok := p.Evict()
	if !ok || victim != "a" {
		t.Fatalf("expected a evicted from A1in first, got %q ok=%v", victim, ok)
	}

	p.OnPut("a") // ghost hit: promoted straight into Am, bypassing A1in

	seen := map[string]bool{}
	for {
		k, ok := p.Evict()
		if !ok {
			break
		}
		if seen[k] {
			t.Fatalf("key %q evicted twice", k)
		}
		seen[k] = true
	}
	if !seen["a"] || !seen["b"] || !seen["c"] {
		t.Fatalf("expected a, b, c all eventually evicted exactly once, got %v", seen)
	}
}
