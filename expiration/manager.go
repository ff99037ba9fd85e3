// Package expiration implements the expiration hook (C5): the container
// never trusts an entry's own IsExpired check as final, it always delegates
// to this collaborator, generalized from the teacher's expiration Strategy
// interface (itself keyed to a single CacheEntry type) into two separate
// join-able predicates distinguishing a normal read path from an
// administrative iteration path.
package expiration

import (
	"context"

	"github.com/nordcache/segcontainer/entry"
)

// Manager is the ExpirationManager collaborator (C5). Both methods return a
// Decision rather than a bare bool so an implementation that needs to check
// a remote source of truth can answer asynchronously without changing the
// interface; the container joins the Decision before proceeding either way.
type Manager[K comparable, V any] interface {
	// EntryExpiredInMemory decides whether e is expired, on the hot read
	// path. The container calls it from Get and ContainsKey; Peek, Put,
	// Remove and Compute do not consult it.
	EntryExpiredInMemory(ctx context.Context, e entry.Entry[K, V], now int64) Decision

	// EntryExpiredInMemoryFromIteration decides whether e is expired while
	// walking the container via the iteration engine (C7), which tolerates
	// a weaker consistency guarantee than a direct read.
	EntryExpiredInMemoryFromIteration(ctx context.Context, e entry.Entry[K, V], now int64) Decision
}
