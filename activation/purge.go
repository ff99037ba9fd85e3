package activation

import "context"

// Purger deletes a passivated copy of a key from the backing store. Defined
// locally so this package never imports passivation; any Store-like type
// that also exposes Delete satisfies this structurally.
type Purger[K comparable] interface {
	Delete(ctx context.Context, key K) error
}

// StorePurger deletes a key's passivated copy the first time it is created
// in memory again, so a stale on-disk copy never shadows a fresh in-memory
// value once activation re-populates it.
type StorePurger[K comparable] struct {
	store Purger[K]
}

func NewStorePurger[K comparable](store Purger[K]) *StorePurger[K] {
	return &StorePurger[K]{store: store}
}

// OnUpdate purges the backing copy only on a brand-new key; an update of a
// live key means it was never passivated in the first place.
func (p *StorePurger[K]) OnUpdate(k K, wasCreate bool) {
	if wasCreate {
		_ = p.store.Delete(context.Background(), k)
	}
}

func (p *StorePurger[K]) OnRemove(K, bool) {}

var _ Manager[string] = (*StorePurger[string])(nil)
