// Package lock provides the per-segment exclusion primitive the container
// uses to guarantee invariant 3 (no two compute blocks on the same key
// interleave): since every key for a given partitioner routes to exactly one
// segment, serializing mutations within a segment is sufficient.
package lock

import (
	"context"

	ctxlock "github.com/datnguyenzzz/nogodb/lib/go-context-aware-lock"
)

// CtxMutex is a binary mutex acquired and released against a context. It
// wraps the retrieval pack's local context-aware lock, which resolves
// entirely in-process (no network round trip) and honors context
// cancellation while waiting: a canceled or expired context unblocks only
// the waiter, never the lock holder.
type CtxMutex struct {
	inner ctxlock.ICtxLock
}

// NewCtxMutex returns an unlocked mutex.
func NewCtxMutex() *CtxMutex {
	return &CtxMutex{inner: ctxlock.NewLocalLock()}
}

// Acquire blocks until the mutex is free or ctx is done.
func (l *CtxMutex) Acquire(ctx context.Context) error {
	return l.inner.AcquireCtx(ctx)
}

// Release frees the mutex. Unlike Acquire, releasing never blocks in
// practice (the channel always has room once held) but ctx is still honored
// for symmetry with Acquire and to surface cancellation during shutdown.
func (l *CtxMutex) Release(ctx context.Context) error {
	return l.inner.ReleaseCtx(ctx)
}
