package observability

import "context"

// NoOpObserver discards every event. It is the default so the container
// never needs nil checks around its observer collaborator.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
func (NoOpObserver) AcceptsVerbose() bool           { return false }

var _ Observer = NoOpObserver{}
