package eviction

import (
	"context"
	"sync"
	"sync/atomic"
)

// Listener receives the entries a single mutation removed, tagged with why
// they left: a batch of eviction victims chosen by policy in one makeRoom
// pass for RemovalCause Size, or a single key for an explicit remove/evict.
// A listener that panics is recovered by the manager rather than aborting
// the mutation that triggered the removal.
type Listener[K comparable, V any] func(ctx context.Context, removed map[K]V, cause RemovalCause)

type listenerEntry[K comparable, V any] struct {
	id int64
	fn Listener[K, V]
}

// ListenerRegistry is a copy-on-write list of removal listeners, shared
// process-wide by every segment of one container so registering once
// covers every segment's removals. Reads (snapshot, used on every removal)
// never synchronize; only Register/Unregister take the write lock.
type ListenerRegistry[K comparable, V any] struct {
	mu        sync.Mutex
	listeners atomic.Value // []listenerEntry[K, V]
	nextID    atomic.Int64
}

func NewListenerRegistry[K comparable, V any]() *ListenerRegistry[K, V] {
	r := &ListenerRegistry[K, V]{}
	r.listeners.Store([]listenerEntry[K, V]{})
	return r
}

// Register appends l to the registry and returns a token Unregister can
// later use to remove it. Invocation order matches registration order.
func (r *ListenerRegistry[K, V]) Register(l Listener[K, V]) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID.Add(1)
	old := r.listeners.Load().([]listenerEntry[K, V])
	next := make([]listenerEntry[K, V], len(old)+1)
	copy(next, old)
	next[len(old)] = listenerEntry[K, V]{id: id, fn: l}
	r.listeners.Store(next)
	return id
}

// Unregister drops the listener registered under id, if still present.
func (r *ListenerRegistry[K, V]) Unregister(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.listeners.Load().([]listenerEntry[K, V])
	next := make([]listenerEntry[K, V], 0, len(old))
	for _, e := range old {
		if e.id != id {
			next = append(next, e)
		}
	}
	r.listeners.Store(next)
}

func (r *ListenerRegistry[K, V]) snapshot() []listenerEntry[K, V] {
	return r.listeners.Load().([]listenerEntry[K, V])
}
