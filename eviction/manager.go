package eviction

import (
	"context"
	"time"

	"github.com/nordcache/segcontainer/entry"
	"github.com/nordcache/segcontainer/metrics"
	"github.com/nordcache/segcontainer/observability"
)

// Passivator is the subset of the passivation collaborator (C6) the eviction
// bridge needs: write the entry's value out before it is dropped from
// memory. Defined locally so this package never imports passivation —
// concrete passivation.Manager implementations satisfy this structurally.
type Passivator[K comparable, V any] interface {
	Passivate(ctx context.Context, e entry.Entry[K, V]) error
}

// Activator is the subset of the activation collaborator (C6) the eviction
// bridge needs: react to a key being (re)populated in memory.
type Activator[K comparable] interface {
	OnUpdate(k K, wasCreate bool)
	OnRemove(k K, wasAbsent bool)
}

// Manager is the eviction-integration bridge (C6): it does not choose
// victims (the bounded segment owns the Policy); it notifies passivation,
// activation, metrics, listeners, and observability collaborators in the
// order the container's invariants require (onChosenForEviction happens inside the policy itself; Manager is
// invoked once the segment has already removed the entry).
type Manager[K comparable, V any] struct {
	Passivator Passivator[K, V]
	Activator  Activator[K]
	Metrics    metrics.Metrics
	Listeners  *ListenerRegistry[K, V]
	Observer   observability.Observer
}

// NewManager builds a Manager with safe no-op defaults for any nil
// collaborator, so callers only need to set the ones they care about.
func NewManager[K comparable, V any](passivator Passivator[K, V], activator Activator[K], m metrics.Metrics) *Manager[K, V] {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Manager[K, V]{
		Passivator: passivator,
		Activator:  activator,
		Metrics:    m,
		Listeners:  NewListenerRegistry[K, V](),
		Observer:   observability.NoOpObserver{},
	}
}

// NotifyRemoved dispatches the post-removal side effects for e, tagged with
// why it left the segment. Only Size removals count against the eviction
// metric and reach the passivator — passivation exists to persist an entry
// evicted for size reasons before it is lost, not to persist every explicit
// delete. Replaced does not notify activation, since the key never left the
// segment's key set.
func (m *Manager[K, V]) NotifyRemoved(ctx context.Context, e entry.Entry[K, V], cause RemovalCause) error {
	if cause == Size {
		m.Metrics.Eviction()
	}

	if m.Passivator != nil && cause == Size {
		if err := m.Passivator.Passivate(ctx, e); err != nil {
			return err
		}
	}

	if m.Activator != nil && cause != Replaced {
		// e was stored until this removal, so the key was not absent.
		m.Activator.OnRemove(e.Key, false)
	}

	return nil
}

// NotifyUpdated dispatches activation for a put() that created or replaced
// an entry.
func (m *Manager[K, V]) NotifyUpdated(k K, wasCreate bool) {
	if m.Activator != nil {
		m.Activator.OnUpdate(k, wasCreate)
	}
}

// FireListeners delivers removed to every registered listener, in
// registration order, tagged with cause. Callers batch Size-caused removals
// from one makeRoom pass into a single map so a listener sees exactly one
// onEntryEviction-style call per admission, matching an explicit remove's
// single-key onEntryRemoved-style call.
func (m *Manager[K, V]) FireListeners(ctx context.Context, removed map[K]V, cause RemovalCause) {
	if len(removed) == 0 || m.Listeners == nil {
		return
	}
	for _, l := range m.Listeners.snapshot() {
		m.invokeListener(ctx, l.fn, removed, cause)
	}
}

func (m *Manager[K, V]) invokeListener(ctx context.Context, l Listener[K, V], removed map[K]V, cause RemovalCause) {
	defer func() {
		if r := recover(); r != nil {
			observer := m.Observer
			if observer == nil {
				observer = observability.NoOpObserver{}
			}
			observer.OnEvent(ctx, observability.Event{
				Type:      observability.EventProgrammer,
				Level:     observability.LevelError,
				Timestamp: time.Now(),
				Source:    "eviction.Manager",
				Data:      map[string]any{"panic": r, "cause": cause.String()},
			})
		}
	}()
	l(ctx, removed, cause)
}
