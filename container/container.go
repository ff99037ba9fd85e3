// Package container implements the container façade (C4): the single
// entry point callers use to get, put, remove, compute over, and iterate a
// segmented key space, orchestrating every other collaborator package.
package container

import (
	"context"
	"time"

	"github.com/nordcache/segcontainer/activation"
	"github.com/nordcache/segcontainer/clock"
	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/eviction"
	"github.com/nordcache/segcontainer/expiration"
	"github.com/nordcache/segcontainer/iter"
	"github.com/nordcache/segcontainer/metrics"
	"github.com/nordcache/segcontainer/observability"
	"github.com/nordcache/segcontainer/partition"
	"github.com/nordcache/segcontainer/passivation"
	"github.com/nordcache/segcontainer/segment"
)

// Container is the segmented concurrent data container (C4). The zero value
// is not usable; build one with New and call Start before any other method.
type Container[K comparable, V any] struct {
	cfg         Config
	partitioner partition.KeyPartitioner[K]

	clock      clock.TimeService
	expiration expiration.Manager[K, V]
	metrics    metrics.Metrics
	observer   observability.Observer
	passivator passivation.Manager[K, V]
	activator  activation.Manager[K]

	factory   entry.Factory[K, V]
	segments  []segment.Map[K, V]
	listeners *eviction.ListenerRegistry[K, V]

	started bool
	trace   bool
}

// Option customizes a Container's collaborators before Start.
type Option[K comparable, V any] func(*Container[K, V])

func WithClock[K comparable, V any](ts clock.TimeService) Option[K, V] {
	return func(c *Container[K, V]) { c.clock = ts }
}

func WithExpirationManager[K comparable, V any](m expiration.Manager[K, V]) Option[K, V] {
	return func(c *Container[K, V]) { c.expiration = m }
}

func WithMetrics[K comparable, V any](m metrics.Metrics) Option[K, V] {
	return func(c *Container[K, V]) { c.metrics = m }
}

func WithObserver[K comparable, V any](o observability.Observer) Option[K, V] {
	return func(c *Container[K, V]) { c.observer = o }
}

func WithPassivation[K comparable, V any](p passivation.Manager[K, V]) Option[K, V] {
	return func(c *Container[K, V]) { c.passivator = p }
}

func WithActivation[K comparable, V any](a activation.Manager[K]) Option[K, V] {
	return func(c *Container[K, V]) { c.activator = a }
}

// New builds a Container with safe no-op defaults for any collaborator not
// overridden by an Option. Call Start before using it.
func New[K comparable, V any](cfg Config, partitioner partition.KeyPartitioner[K], opts ...Option[K, V]) *Container[K, V] {
	c := &Container[K, V]{
		cfg:         cfg,
		partitioner: partitioner,
		clock:       clock.System{},
		expiration:  expiration.Default[K, V]{},
		metrics:     metrics.Noop{},
		observer:    observability.NoOpObserver{},
		passivator:  passivation.Noop[K, V]{},
		activator:   activation.Noop[K]{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start validates Config and allocates every segment, mirroring the
// original container's @Start lifecycle hook. It must be called exactly
// once before any other method.
func (c *Container[K, V]) Start(ctx context.Context) error {
	if c.started {
		return &ProgrammerError{Op: "Start", Message: "container already started"}
	}
	if c.cfg.SegmentCount <= 0 {
		return &ProgrammerError{Op: "Start", Message: "Config.SegmentCount must be > 0"}
	}

	c.factory = entry.NewFactory[K, V](c.clock.WallClockTime)
	c.trace = c.observer.AcceptsVerbose()

	policyType := eviction.PolicyType(c.cfg.EvictionPolicyName)
	if policyType == "" {
		policyType = eviction.LRU
	}

	perSegCap := c.cfg.perSegmentCapacity()

	// One registry shared by every segment's manager, so a listener
	// registered once observes removals from the whole container rather
	// than a single segment.
	c.listeners = eviction.NewListenerRegistry[K, V]()

	c.segments = make([]segment.Map[K, V], c.cfg.SegmentCount)
	for i := range c.segments {
		if perSegCap <= 0 {
			mgr := eviction.NewManager[K, V](nil, c.activator, c.metrics)
			mgr.Listeners = c.listeners
			mgr.Observer = c.observer
			c.segments[i] = segment.NewUnbounded[K, V](c.clock, mgr)
			continue
		}

		var passivator eviction.Passivator[K, V]
		if c.cfg.PassivationEnabled {
			passivator = c.passivator
		}
		mgr := eviction.NewManager[K, V](passivator, c.activator, c.metrics)
		mgr.Listeners = c.listeners
		mgr.Observer = c.observer
		c.segments[i] = segment.NewBounded[K, V](c.clock, eviction.New[K](policyType, perSegCap), mgr, perSegCap)
	}

	c.started = true
	return nil
}

// Stop clears every segment and, if a passivator was configured, drains it
// synchronously before returning.
func (c *Container[K, V]) Stop(ctx context.Context) error {
	if !c.started {
		return &ProgrammerError{Op: "Stop", Message: "container not started"}
	}
	for _, seg := range c.segments {
		if err := seg.Clear(ctx); err != nil {
			return &CollaboratorFailure{Collaborator: "segment", Err: err}
		}
	}
	c.passivator.Close()
	c.started = false
	return nil
}

func (c *Container[K, V]) segmentFor(key K) segment.Map[K, V] {
	idx := c.partitioner.SegmentFor(key)
	return c.segments[idx]
}

// RegisterListener adds l to the container-wide removal listener registry
// (§4.4): it is invoked with every key removed for size or explicit reasons,
// across every segment, in registration order. Must be called after Start.
// Returns a token for UnregisterListener.
func (c *Container[K, V]) RegisterListener(l eviction.Listener[K, V]) int64 {
	return c.listeners.Register(l)
}

// UnregisterListener removes the listener registered under id, if still
// present.
func (c *Container[K, V]) UnregisterListener(id int64) {
	c.listeners.Unregister(id)
}

// Get returns the live value for key, recording an access for eviction and
// expiration bookkeeping. A missing or expired key is reported as
// (zero value, false, nil) — a TransientMiss never surfaces as an error.
//
// Per get()'s contract: now is sampled once, the expiry decision is made
// against the entry's LastUsedAt as it stood before this call, and only the
// not-expired branch advances LastUsedAt. Touching before deciding expiry
// would make an idle-expired entry's maxIdle predicate unsatisfiable on
// every subsequent Get, since the touch itself would always reset the idle
// clock first.
func (c *Container[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	seg := c.segmentFor(key)
	e, ok := seg.Get(key)
	if !ok {
		c.metrics.Miss()
		var zero V
		return zero, false, nil
	}

	now := c.clock.WallClockTime()
	if expiration.Join(c.expiration.EntryExpiredInMemory(ctx, e, now)) {
		c.metrics.Expire()
		c.emit(ctx, observability.EventExpired, e.Key)
		if err := c.removeKey(ctx, key); err != nil {
			var zero V
			return zero, false, err
		}
		var zero V
		return zero, false, nil
	}

	seg.Touch(key, now)
	c.metrics.Hit()
	return e.Value, true, nil
}

// Peek returns the value stored for key without recording an access or
// consulting the expiration hook, for callers that must not disturb LRU /
// idle-time bookkeeping (e.g. administrative inspection).
func (c *Container[K, V]) Peek(key K) (V, bool) {
	e, ok := c.segmentFor(key).Peek(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// ContainsKey reports whether key currently maps to a live, unexpired
// entry, without the side effects Get has on a hit.
func (c *Container[K, V]) ContainsKey(ctx context.Context, key K) bool {
	e, ok := c.segmentFor(key).Peek(key)
	if !ok {
		return false
	}
	return !expiration.Join(c.expiration.EntryExpiredInMemory(ctx, e, c.clock.WallClockTime()))
}

// Put creates or replaces key's entry with value under meta, returning the
// stored entry.
func (c *Container[K, V]) Put(ctx context.Context, key K, value V, meta entry.Metadata) (entry.Entry[K, V], error) {
	result, _, err := c.segmentFor(key).Compute(ctx, key, func(prev entry.Entry[K, V], present bool) (entry.Entry[K, V], segment.Op) {
		if present {
			return c.factory.Update(prev, value, meta), segment.OpPut
		}
		return c.factory.Create(key, value, meta), segment.OpPut
	})
	if err != nil {
		var zero entry.Entry[K, V]
		return zero, &CollaboratorFailure{Collaborator: "segment", Err: err}
	}
	return result, nil
}

// PutL1 stores value as a short-lived L1 copy, per the L1 handling named in
// the container's operation table: the container unwraps meta.Inner before
// storing and tags the resulting entry's L1 flag.
func (c *Container[K, V]) PutL1(ctx context.Context, key K, value V, meta entry.L1Metadata) (entry.Entry[K, V], error) {
	result, _, err := c.segmentFor(key).Compute(ctx, key, func(prev entry.Entry[K, V], present bool) (entry.Entry[K, V], segment.Op) {
		return c.factory.CreateL1(key, value, meta.Inner), segment.OpPut
	})
	if err != nil {
		var zero entry.Entry[K, V]
		return zero, &CollaboratorFailure{Collaborator: "segment", Err: err}
	}
	return result, nil
}

// Remove drops key unconditionally, dispatching RemovalCause Explicit to the
// activation collaborator and removal listeners when the key was present.
// An explicit removal is never passivated.
func (c *Container[K, V]) Remove(ctx context.Context, key K) error {
	return c.removeKey(ctx, key)
}

// Evict administratively forces key out of the container. Only a bounded
// segment's own capacity pressure ever produces RemovalCause Size — Evict
// and Remove both trigger the segment's explicit removal path; they are
// two names for the same caller-driven action, not two different causes.
func (c *Container[K, V]) Evict(ctx context.Context, key K) error {
	return c.removeKey(ctx, key)
}

func (c *Container[K, V]) removeKey(ctx context.Context, key K) error {
	_, _, err := c.segmentFor(key).Compute(ctx, key, func(entry.Entry[K, V], bool) (entry.Entry[K, V], segment.Op) {
		var zero entry.Entry[K, V]
		return zero, segment.OpRemove
	})
	if err != nil {
		return &CollaboratorFailure{Collaborator: "segment", Err: err}
	}
	return nil
}

// Compute atomically applies fn to key's current value (if any); fn returns
// the new value and whether to keep the key. All serialization is handled
// by the owning segment, giving callers linearizable read-modify-write
// semantics per key.
func (c *Container[K, V]) Compute(ctx context.Context, key K, fn func(value V, present bool) (V, bool)) (V, bool, error) {
	result, present, err := c.segmentFor(key).Compute(ctx, key, func(prev entry.Entry[K, V], present bool) (entry.Entry[K, V], segment.Op) {
		var prevVal V
		if present {
			prevVal = prev.Value
		}
		nextVal, keep := fn(prevVal, present)
		if !keep {
			var zero entry.Entry[K, V]
			return zero, segment.OpRemove
		}
		meta := entry.Metadata{LifespanMillis: -1, MaxIdleMillis: -1}
		if present {
			return c.factory.Update(prev, nextVal, meta), segment.OpPut
		}
		return c.factory.Create(key, nextVal, meta), segment.OpPut
	})
	if err != nil {
		var zero V
		return zero, false, &CollaboratorFailure{Collaborator: "segment", Err: err}
	}
	if !present {
		var zero V
		return zero, false, nil
	}
	return result.Value, true, nil
}

// SizeIncludingExpired sums every segment's entry count, expired or not.
// A segment that cannot be reached is treated as contributing 0, never as
// an error: size is always a best-effort approximation under concurrent
// mutation.
func (c *Container[K, V]) SizeIncludingExpired() int {
	total := 0
	for _, seg := range c.segments {
		total += seg.Size()
	}
	return total
}

// Clear removes every entry from every segment.
func (c *Container[K, V]) Clear(ctx context.Context) error {
	for _, seg := range c.segments {
		if err := seg.Clear(ctx); err != nil {
			return &CollaboratorFailure{Collaborator: "segment", Err: err}
		}
	}
	return nil
}

// Iterator returns a splittable cursor over every live, unexpired entry.
// The walk is weakly consistent: it reflects the container's state at the
// moment each segment was snapshotted, not a single point-in-time view
// across the whole container.
func (c *Container[K, V]) Iterator(ctx context.Context) *iter.Cursor[K, V] {
	return c.buildCursor(ctx, true)
}

// IteratorIncludingExpired is Iterator without the expiration filter, for
// administrative callers that need to see everything still physically
// present.
func (c *Container[K, V]) IteratorIncludingExpired(ctx context.Context) *iter.Cursor[K, V] {
	return c.buildCursor(ctx, false)
}

func (c *Container[K, V]) buildCursor(ctx context.Context, filterExpired bool) *iter.Cursor[K, V] {
	now := c.clock.WallClockTime()
	var entries []entry.Entry[K, V]
	for _, seg := range c.segments {
		seg.ForEach(func(e entry.Entry[K, V]) bool {
			if filterExpired && expiration.Join(c.expiration.EntryExpiredInMemoryFromIteration(ctx, e, now)) {
				return true
			}
			entries = append(entries, e)
			return true
		})
	}
	return iter.NewCursor(entries)
}

func (c *Container[K, V]) emit(ctx context.Context, t observability.EventType, key any) {
	if !c.trace {
		return
	}
	c.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "container",
		Data:      map[string]any{"key": key},
	})
}
