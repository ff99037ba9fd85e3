// Package activation implements the ActivationManager collaborator (C6): it
// reacts to a key being (re)populated in or dropped from memory, mirroring
// the way the original container notified activation/passivation listeners
// on every segment mutation.
package activation

// Manager is the ActivationManager collaborator. wasCreate distinguishes a
// brand-new key from a replace-on-put; wasAbsent distinguishes an explicit
// removal of a live key from one the segment already considered gone
// (expired or never present).
type Manager[K comparable] interface {
	OnUpdate(k K, wasCreate bool)
	OnRemove(k K, wasAbsent bool)
}

// Noop is the default Manager: activation tracking is disabled.
type Noop[K comparable] struct{}

func (Noop[K]) OnUpdate(K, bool) {}
func (Noop[K]) OnRemove(K, bool) {}

var _ Manager[string] = Noop[string]{}
