// Package partition implements the key partitioner (C3): a pure function
// mapping a key to a segment index, opaque to the container.
package partition

import "hash/fnv"

// KeyPartitioner maps a key to a segment index in [0, segmentCount). The
// container treats it as an opaque dependency and never assumes a
// particular hash family.
type KeyPartitioner[K comparable] interface {
	SegmentFor(key K) int
}

// Bytes is implemented by key types that can expose themselves as bytes for
// hashing. String keys and byte-slice keys both satisfy it trivially.
type Bytes interface {
	~string | ~[]byte
}

// FNV1a partitions keys by hashing their byte representation with FNV-1a,
// the same hash family the retrieval pack's own shard selector uses.
type FNV1a[K Bytes] struct {
	SegmentCount int
}

func NewFNV1a[K Bytes](segmentCount int) FNV1a[K] {
	if segmentCount <= 0 {
		panic("partition: segmentCount must be > 0")
	}
	return FNV1a[K]{SegmentCount: segmentCount}
}

func (p FNV1a[K]) SegmentFor(key K) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.SegmentCount))
}

// Func adapts a plain function to KeyPartitioner, for callers wiring a
// consistent-hash ring or other externally-computed segment assignment —
// the container never assumes any particular implementation (§4.3).
type Func[K comparable] func(key K) int

func (f Func[K]) SegmentFor(key K) int { return f(key) }
