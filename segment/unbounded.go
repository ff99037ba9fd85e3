package segment

import (
	"context"

	"github.com/nordcache/segcontainer/clock"
	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/eviction"
	"github.com/nordcache/segcontainer/lock"
)

// Unbounded is a segment map with no capacity limit: puts always succeed and
// there is no eviction policy, so manager only ever sees RemovalCause
// Explicit/Replaced — but it still carries activation and listener
// notifications, since those are not conditioned on capacity pressure.
type Unbounded[K comparable, V any] struct {
	store   *cowStore[K, V]
	mu      *lock.CtxMutex
	clock   clock.TimeService
	manager *eviction.Manager[K, V]
}

func NewUnbounded[K comparable, V any](ts clock.TimeService, manager *eviction.Manager[K, V]) *Unbounded[K, V] {
	if ts == nil {
		ts = clock.System{}
	}
	if manager == nil {
		manager = eviction.NewManager[K, V](nil, nil, nil)
	}
	return &Unbounded[K, V]{
		store:   newCOWStore[K, V](),
		mu:      lock.NewCtxMutex(),
		clock:   ts,
		manager: manager,
	}
}

// Get does not touch the entry: the caller must consult the returned
// (pre-touch) LastUsedAt to decide idle-expiry before calling Touch, so an
// idle-expired entry is never touched-then-kept.
func (s *Unbounded[K, V]) Get(key K) (entry.Entry[K, V], bool) {
	e, ok := s.store.get(key)
	if !ok {
		var zero entry.Entry[K, V]
		return zero, false
	}
	return *e, true
}

// Touch advances the stored entry's LastUsedAt in place. Callers invoke this
// only after deciding the entry is not expired, per the get() contract's
// touch-only-when-live rule.
func (s *Unbounded[K, V]) Touch(key K, now int64) {
	if e, ok := s.store.get(key); ok {
		e.Touch(now)
	}
}

func (s *Unbounded[K, V]) Peek(key K) (entry.Entry[K, V], bool) {
	e, ok := s.store.get(key)
	if !ok {
		var zero entry.Entry[K, V]
		return zero, false
	}
	return *e, true
}

func (s *Unbounded[K, V]) Compute(ctx context.Context, key K, fn ComputeFunc[K, V]) (entry.Entry[K, V], bool, error) {
	if err := s.mu.Acquire(ctx); err != nil {
		var zero entry.Entry[K, V]
		return zero, false, err
	}
	defer s.mu.Release(context.Background())

	prevPtr, present := s.store.get(key)
	var prev entry.Entry[K, V]
	if present {
		prev = *prevPtr
	}

	next, op := fn(prev, present)
	switch op {
	case OpPut:
		s.store.put(key, &next)
		if present {
			if err := s.manager.NotifyRemoved(ctx, prev, eviction.Replaced); err != nil {
				return next, true, err
			}
			s.manager.NotifyUpdated(key, false)
		} else {
			s.manager.NotifyUpdated(key, true)
		}
		return next, true, nil
	case OpRemove:
		if present {
			s.store.delete(key)
			if err := s.manager.NotifyRemoved(ctx, prev, eviction.Explicit); err != nil {
				var zero entry.Entry[K, V]
				return zero, false, err
			}
			s.manager.FireListeners(ctx, map[K]V{key: prev.Value}, eviction.Explicit)
		}
		var zero entry.Entry[K, V]
		return zero, false, nil
	default:
		return prev, present, nil
	}
}

func (s *Unbounded[K, V]) Size() int {
	return int(s.store.size_())
}

func (s *Unbounded[K, V]) Clear(ctx context.Context) error {
	if err := s.mu.Acquire(ctx); err != nil {
		return err
	}
	defer s.mu.Release(context.Background())

	removed := make(map[K]V)
	for k, e := range s.store.snapshot() {
		if err := s.manager.NotifyRemoved(ctx, *e, eviction.Explicit); err != nil {
			return err
		}
		removed[k] = e.Value
	}
	s.manager.FireListeners(ctx, removed, eviction.Explicit)
	s.store.clear()
	return nil
}

func (s *Unbounded[K, V]) ForEach(fn func(entry.Entry[K, V]) bool) {
	for _, e := range s.store.snapshot() {
		if !fn(*e) {
			return
		}
	}
}

var _ Map[string, any] = (*Unbounded[string, any])(nil)
