package passivation

import (
	"context"

	"github.com/nordcache/segcontainer/entry"
)

// SyncPassivator forwards every passivated entry to the backing store
// immediately and synchronously, generalized from the teacher's
// WriteThroughPolicy. The passivating operation does not complete until the
// store write finishes, so a slow store makes eviction slow too.
type SyncPassivator[K comparable, V any] struct {
	store Store[K, V]
}

func NewSyncPassivator[K comparable, V any](store Store[K, V]) *SyncPassivator[K, V] {
	return &SyncPassivator[K, V]{store: store}
}

func (p *SyncPassivator[K, V]) Passivate(ctx context.Context, e entry.Entry[K, V]) error {
	return p.store.Put(ctx, e.Key, e.Value)
}

func (p *SyncPassivator[K, V]) Close() {}

var _ Manager[string, any] = (*SyncPassivator[string, any])(nil)
