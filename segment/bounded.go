package segment

import (
	"context"

	"github.com/nordcache/segcontainer/clock"
	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/eviction"
	"github.com/nordcache/segcontainer/lock"
)

// Bounded is a segment map with a per-segment capacity: once full, puts
// evict a victim chosen by policy before admitting the new key, and every
// removal (evicted, explicit, or replaced) is dispatched through manager so
// passivation/activation/metrics collaborators observe it with the right
// RemovalCause (C6).
type Bounded[K comparable, V any] struct {
	store    *cowStore[K, V]
	mu       *lock.CtxMutex
	clock    clock.TimeService
	policy   eviction.Policy[K]
	manager  *eviction.Manager[K, V]
	capacity int
}

func NewBounded[K comparable, V any](
	ts clock.TimeService,
	policy eviction.Policy[K],
	manager *eviction.Manager[K, V],
	capacity int,
) *Bounded[K, V] {
	if ts == nil {
		ts = clock.System{}
	}
	if manager == nil {
		manager = eviction.NewManager[K, V](nil, nil, nil)
	}
	return &Bounded[K, V]{
		store:    newCOWStore[K, V](),
		mu:       lock.NewCtxMutex(),
		clock:    ts,
		policy:   policy,
		manager:  manager,
		capacity: capacity,
	}
}

// Get records the access against the eviction policy without holding the
// segment's exclusion primitive, matching the teacher's own read path: reads
// stay lock-free and the resulting benign race on policy bookkeeping is an
// accepted cost of that tradeoff. It does not touch the entry: the caller
// must consult the returned (pre-touch) LastUsedAt to decide idle-expiry
// before calling Touch, so an idle-expired entry is never touched-then-kept.
func (s *Bounded[K, V]) Get(key K) (entry.Entry[K, V], bool) {
	e, ok := s.store.get(key)
	if !ok {
		var zero entry.Entry[K, V]
		return zero, false
	}
	s.policy.OnGet(key)
	return *e, true
}

// Touch advances the stored entry's LastUsedAt in place, without taking the
// segment's exclusion primitive. Callers invoke this only after deciding the
// entry is not expired, per the get() contract's touch-only-when-live rule.
func (s *Bounded[K, V]) Touch(key K, now int64) {
	if e, ok := s.store.get(key); ok {
		e.Touch(now)
	}
}

func (s *Bounded[K, V]) Peek(key K) (entry.Entry[K, V], bool) {
	e, ok := s.store.get(key)
	if !ok {
		var zero entry.Entry[K, V]
		return zero, false
	}
	return *e, true
}

func (s *Bounded[K, V]) Compute(ctx context.Context, key K, fn ComputeFunc[K, V]) (entry.Entry[K, V], bool, error) {
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
		if present {
			s.store.put(key, &next)
			s.policy.OnPut(key)
			if err := s.manager.NotifyRemoved(ctx, prev, eviction.Replaced); err != nil {
				return next, true, err
			}
			s.manager.NotifyUpdated(key, false)
			return next, true, nil
		}

		if err := s.makeRoom(ctx); err != nil {
			return next, true, err
		}
		s.store.put(key, &next)
		s.policy.OnPut(key)
		s.manager.NotifyUpdated(key, true)
		return next, true, nil

	case OpRemove:
		if present {
			s.store.delete(key)
			s.policy.Remove(key)
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

// makeRoom evicts victims chosen by policy until the segment has space for
// one more entry. Each victim is dispatched through manager with RemovalCause
// Size before its key is freed for reuse. All victims from this one
// admission are then delivered to registered listeners in a single batched
// call, matching onEntryEviction's "map of evicted entries" contract rather
// than firing once per victim.
func (s *Bounded[K, V]) makeRoom(ctx context.Context) error {
	var victims map[K]V
	for int(s.store.size_()) >= s.capacity {
		victimKey, ok := s.policy.Evict()
		if !ok {
			break
		}
		victimPtr, vok := s.store.get(victimKey)
		s.store.delete(victimKey)
		if vok {
			if err := s.manager.NotifyRemoved(ctx, *victimPtr, eviction.Size); err != nil {
				return err
			}
			if victims == nil {
				victims = make(map[K]V)
			}
			victims[victimKey] = victimPtr.Value
		}
	}
	s.manager.FireListeners(ctx, victims, eviction.Size)
	return nil
}

func (s *Bounded[K, V]) Size() int {
	return int(s.store.size_())
}

func (s *Bounded[K, V]) Clear(ctx context.Context) error {
	if err := s.mu.Acquire(ctx); err != nil {
		return err
	}
	defer s.mu.Release(context.Background())

	removed := make(map[K]V)
	for k, e := range s.store.snapshot() {
		s.policy.Remove(k)
		if err := s.manager.NotifyRemoved(ctx, *e, eviction.Explicit); err != nil {
			return err
		}
		removed[k] = e.Value
	}
	s.manager.FireListeners(ctx, removed, eviction.Explicit)
	s.store.clear()
	return nil
}

func (s *Bounded[K, V]) ForEach(fn func(entry.Entry[K, V]) bool) {
	for _, e := range s.store.snapshot() {
		if !fn(*e) {
			return
		}
	}
}

var _ Map[string, any] = (*Bounded[string, any])(nil)
