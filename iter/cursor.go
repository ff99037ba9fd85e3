// Package iter implements the iteration engine (C7): a weakly-consistent,
// splittable walk over a container's entries that filters out expired ones.
// The walk is not lazy: it runs over a slice the container materializes and
// filters in full when the cursor is built. Translated from the original DataContainer's Spliterator-based
// EntryIterator into Go's range-over-func idiom.
package iter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nordcache/segcontainer/entry"
)

// Cursor is a splittable, single-pass walk over a fixed slice of entries.
// Splitting a Cursor in two never duplicates or drops an entry, matching the
// "splittable" characteristic named for the iteration engine.
type Cursor[K comparable, V any] struct {
	entries []entry.Entry[K, V]
	pos     int
}

// NewCursor wraps a pre-filtered, already-expiry-checked slice of entries.
// Callers (the container) build this whole slice eagerly on each Iterator()
// call rather than keeping one materialized permanently.
func NewCursor[K comparable, V any](entries []entry.Entry[K, V]) *Cursor[K, V] {
	return &Cursor[K, V]{entries: entries}
}

// TryAdvance visits the next entry, if any, and reports whether one existed.
func (c *Cursor[K, V]) TryAdvance(fn func(entry.Entry[K, V]) bool) bool {
	if c.pos >= len(c.entries) {
		return false
	}
	e := c.entries[c.pos]
	c.pos++
	fn(e)
	return true
}

// ForEachRemaining visits every entry left in this cursor.
func (c *Cursor[K, V]) ForEachRemaining(fn func(entry.Entry[K, V])) {
	for c.pos < len(c.entries) {
		fn(c.entries[c.pos])
		c.pos++
	}
}

// Split detaches and returns a prefix of this cursor's remaining entries as
// a new Cursor, leaving the suffix behind. Returns false when the remainder
// is too small to usefully split further.
func (c *Cursor[K, V]) Split() (*Cursor[K, V], bool) {
	remaining := len(c.entries) - c.pos
	if remaining < 2 {
		return nil, false
	}
	mid := c.pos + remaining/2
	left := &Cursor[K, V]{entries: c.entries[c.pos:mid]}
	c.entries = c.entries[mid:]
	c.pos = 0
	return left, true
}

// EstimateSize reports how many entries remain, for callers sizing a
// parallel fan-out.
func (c *Cursor[K, V]) EstimateSize() int64 {
	return int64(len(c.entries) - c.pos)
}

// Seq2 adapts this cursor into a Go 1.23 range-over-func iterator keyed by
// the entry's key, the idiomatic modern equivalent of a Java Spliterator
// consumed via forEachRemaining.
func (c *Cursor[K, V]) Seq2() func(yield func(K, entry.Entry[K, V]) bool) {
	return func(yield func(K, entry.Entry[K, V]) bool) {
		for c.pos < len(c.entries) {
			e := c.entries[c.pos]
			c.pos++
			if !yield(e.Key, e) {
				return
			}
		}
	}
}

// ForEachParallel fans a splittable cursor out across GOMAXPROCS goroutines,
// for administrative operations (accurate size, rebalancing) that can
// tolerate the weaker per-goroutine ordering a parallel walk implies.
func ForEachParallel[K comparable, V any](ctx context.Context, c *Cursor[K, V], fn func(entry.Entry[K, V])) error {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}

	pieces := []*Cursor[K, V]{c}
	for len(pieces) < workers {
		grew := false
		next := make([]*Cursor[K, V], 0, len(pieces)*2)
		for _, p := range pieces {
			if left, ok := p.Split(); ok {
				next = append(next, left, p)
				grew = true
			} else {
				next = append(next, p)
			}
		}
		pieces = next
		if !grew {
			break
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for _, p := range pieces {
		p := p
		g.Go(func() error {
			p.ForEachRemaining(fn)
			return nil
		})
	}
	return g.Wait()
}
