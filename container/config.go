package container

import "github.com/nordcache/segcontainer/storage"

// Config is the container's configuration surface (A6): the distilled spec's
// {segmentCount, storage, maxEntries, passivationEnabled}, plus
// EvictionPolicyName.
type Config struct {
	// SegmentCount is how many independent segments the key space is split
	// across. Must be > 0.
	SegmentCount int

	// Storage names a value representation. The container stores it but
	// does not read it: segments always hold native Go values, and no
	// storage.Codec is applied.
	Storage storage.Kind

	// MaxEntries bounds the number of entries, split evenly across
	// segments: each segment holds at most MaxEntries/SegmentCount entries
	// (rounded down, but at least one), so when MaxEntries < SegmentCount
	// the total can reach SegmentCount. Zero or negative means unbounded.
	MaxEntries int

	// PassivationEnabled toggles whether a configured PassivationManager is
	// actually invoked when a bounded segment evicts an entry for size.
	// Explicit removals are never passivated. Allows a passivator to be
	// wired in but disabled without restructuring the container.
	PassivationEnabled bool

	// EvictionPolicyName selects the bounded-segment victim policy when
	// MaxEntries > 0. Defaults to LRU.
	EvictionPolicyName string
}

func (c Config) perSegmentCapacity() int {
	if c.MaxEntries <= 0 || c.SegmentCount <= 0 {
		return 0
	}
	cap := c.MaxEntries / c.SegmentCount
	if cap < 1 {
		cap = 1
	}
	return cap
}
