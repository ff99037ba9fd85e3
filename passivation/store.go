// Package passivation implements the PassivationManager collaborator (C6):
// writing an entry's value out to a backing store before or as it leaves the
// segment map, generalized from the teacher's write-through/write-back
// policies.
package passivation

import "context"

// Store is the backing store a Manager writes to, generalized from the
// teacher's types.Loader to an arbitrary key/value pair. Only the write side
// is needed here; read-through loading is out of the container's
// collaborator set and lives in the demo/interceptor layer instead.
type Store[K comparable, V any] interface {
	Put(ctx context.Context, key K, value V) error
}
