// Package segment implements the segment map (C2): the per-segment storage
// unit a container shards its keys across, generalized from the teacher's
// shard package to arbitrary comparable keys and any value type.
package segment

import (
	"sync/atomic"

	"github.com/nordcache/segcontainer/entry"
)

// cowStore is a copy-on-write map: readers always see an immutable
// snapshot, writers atomically publish a new one. Generalized from the
// teacher's cowStore, storing *entry.Entry so Touch (the one mutation
// permitted after storage) never requires republishing a snapshot.
type cowStore[K comparable, V any] struct {
	data atomic.Value // map[K]*entry.Entry[K,V]
	size atomic.Int64
}

func newCOWStore[K comparable, V any]() *cowStore[K, V] {
	s := &cowStore[K, V]{}
	s.data.Store(make(map[K]*entry.Entry[K, V]))
	return s
}

func (s *cowStore[K, V]) snapshot() map[K]*entry.Entry[K, V] {
	return s.data.Load().(map[K]*entry.Entry[K, V])
}

func (s *cowStore[K, V]) get(key K) (*entry.Entry[K, V], bool) {
	e, ok := s.snapshot()[key]
	return e, ok
}

// put must only be called while the segment's exclusion primitive is held.
func (s *cowStore[K, V]) put(key K, e *entry.Entry[K, V]) {
	old := s.snapshot()
	n := make(map[K]*entry.Entry[K, V], len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[key] = e
	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

// delete must only be called while the segment's exclusion primitive is held.
func (s *cowStore[K, V]) delete(key K) {
	old := s.snapshot()
	if _, ok := old[key]; !ok {
		return
	}
	n := make(map[K]*entry.Entry[K, V], len(old))
	for k, v := range old {
		if k != key {
			n[k] = v
		}
	}
	s.data.Store(n)
	s.size.Store(int64(len(n)))
}

// clear must only be called while the segment's exclusion primitive is held.
func (s *cowStore[K, V]) clear() {
	s.data.Store(make(map[K]*entry.Entry[K, V]))
	s.size.Store(0)
}

func (s *cowStore[K, V]) size_() int64 {
	return s.size.Load()
}
