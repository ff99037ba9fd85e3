package expiration

import (
	"context"

	"github.com/nordcache/segcontainer/entry"
)

// Default answers both predicates synchronously from the entry's own
// lifespan/max-idle bounds, matching the sliding/absolute TTL rules the
// teacher's ExpireAfterAccess strategy implements, generalized to the
// entry model's -1-means-no-bound convention.
type Default[K comparable, V any] struct{}

func (Default[K, V]) EntryExpiredInMemory(_ context.Context, e entry.Entry[K, V], now int64) Decision {
	return Resolved(e.IsExpired(now))
}

func (Default[K, V]) EntryExpiredInMemoryFromIteration(_ context.Context, e entry.Entry[K, V], now int64) Decision {
	return Resolved(e.IsExpired(now))
}

var _ Manager[string, any] = Default[string, any]{}
