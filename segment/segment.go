package segment

import (
	"context"

	"github.com/nordcache/segcontainer/entry"
)

// Op is what a ComputeFunc asks the segment to do with the value it returns.
type Op int

const (
	// OpNone leaves the segment unchanged; used when a compute decides
	// there is nothing to do (e.g. computeIfPresent on an absent key).
	OpNone Op = iota
	// OpPut stores the returned entry, creating or replacing the key.
	OpPut
	// OpRemove drops the key from the segment.
	OpRemove
)

// ComputeFunc is called under the segment's exclusion primitive with the
// entry currently stored for a key, if any. present is false only when no
// entry is stored for the key; an expired entry that is still stored is
// passed with present true, and neither the segment nor the container
// filters it out before invoking compute.
type ComputeFunc[K comparable, V any] func(prev entry.Entry[K, V], present bool) (next entry.Entry[K, V], op Op)

// Map is the SegmentMap contract (C2): get, peek, compute, size, clear.
// Implementations must guarantee invariant 3 (no two computes on the same
// key interleave) by serializing all mutations through one exclusion
// primitive per segment; reads may be lock-free.
type Map[K comparable, V any] interface {
	// Get returns the entry for key, notifying any eviction policy of an
	// access if found. It does not advance LastUsedAt: the caller must
	// decide expiry against the returned (pre-touch) entry first and call
	// Touch only once it decides the entry is live, per get()'s
	// touch-only-when-not-expired contract.
	Get(key K) (entry.Entry[K, V], bool)

	// Peek returns the entry for key without recording an access.
	Peek(key K) (entry.Entry[K, V], bool)

	// Touch advances the stored entry's LastUsedAt to now, in place.
	Touch(key K, now int64)

	// Compute atomically applies fn to key's current entry (if any) and
	// applies fn's requested Op, all under this segment's exclusion
	// primitive. Returns the resulting entry and whether it is now
	// present.
	Compute(ctx context.Context, key K, fn ComputeFunc[K, V]) (entry.Entry[K, V], bool, error)

	// Size returns the number of entries currently stored, expired or not.
	Size() int

	// Clear removes every entry, notifying eviction/passivation exactly as
	// an explicit per-key remove would.
	Clear(ctx context.Context) error

	// ForEach walks every stored entry in a single, weakly-consistent
	// pass, for the iteration engine (C7) to build cursors on top of.
	ForEach(fn func(entry.Entry[K, V]) bool)
}
