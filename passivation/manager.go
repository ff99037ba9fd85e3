package passivation

import (
	"context"

	"github.com/nordcache/segcontainer/entry"
)

// Manager is the PassivationManager collaborator (C6). The cache engine does
// not care which strategy is used; it simply calls Passivate whenever an
// entry leaves memory for a reason passivation should observe, and Close
// when the container shuts down.
type Manager[K comparable, V any] interface {
	Passivate(ctx context.Context, e entry.Entry[K, V]) error
	Close()
}

// Noop is the default Manager: passivation is disabled, matching
// Config.PassivationEnabled = false.
type Noop[K comparable, V any] struct{}

func (Noop[K, V]) Passivate(context.Context, entry.Entry[K, V]) error { return nil }
func (Noop[K, V]) Close()                                             {}

var _ Manager[string, any] = Noop[string, any]{}
