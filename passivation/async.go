package passivation

import (
	"context"
	"sync"

	"github.com/nordcache/segcontainer/entry"
)

// writeReq is one pending passivation write, generalized from the teacher's
// write-back request struct.
type writeReq[K comparable, V any] struct {
	ctx   context.Context
	key   K
	value V
}

// AsyncPassivator queues passivation writes onto a buffered channel drained
// by a single background worker, generalized from the teacher's
// WriteBackPolicy. Writes are dropped under backpressure rather than
// blocking the segment that is evicting: a slow store must never slow down
// the cache.
type AsyncPassivator[K comparable, V any] struct {
	store Store[K, V]
	ch    chan writeReq[K, V]
	wg    sync.WaitGroup
}

// NewAsyncPassivator starts one worker and returns an AsyncPassivator ready
// to accept up to buffer queued writes before it starts dropping them.
func NewAsyncPassivator[K comparable, V any](store Store[K, V], buffer int) *AsyncPassivator[K, V] {
	p := &AsyncPassivator[K, V]{
		store: store,
		ch:    make(chan writeReq[K, V], buffer),
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

// Passivate enqueues e's value for writeback. If the queue is full the write
// is dropped intentionally: the cache stays fast and the backing store may
// lag.
func (p *AsyncPassivator[K, V]) Passivate(ctx context.Context, e entry.Entry[K, V]) error {
	select {
	case p.ch <- writeReq[K, V]{ctx, e.Key, e.Value}:
	default:
	}
	return nil
}

func (p *AsyncPassivator[K, V]) worker() {
	defer p.wg.Done()
	for req := range p.ch {
		_ = p.store.Put(req.ctx, req.key, req.value)
	}
}

// Close stops accepting new writes and waits for the worker to drain the
// queue, matching Container.Stop's "drain the passivator synchronously"
// lifecycle rule.
func (p *AsyncPassivator[K, V]) Close() {
	close(p.ch)
	p.wg.Wait()
}

var _ Manager[string, any] = (*AsyncPassivator[string, any])(nil)
