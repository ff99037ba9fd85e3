// Package observability provides the container's event-based logging hook.
// Levels align with OpenTelemetry SeverityNumbers, generalized from an
// observer pattern used elsewhere in the retrieval pack for the same reason:
// zero-translation compatibility with OTel collectors downstream.
package observability

import (
	"context"
	"time"
)

// Level is an event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelTrace   Level = 1  // OTel TRACE (1-4)
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	default:
		return "ERROR"
	}
}

// EventType identifies the kind of event the container emits.
type EventType string

const (
	EventExpired    EventType = "container.entry.expired"
	EventEvicted    EventType = "container.entry.evicted"
	EventPassivated EventType = "container.entry.passivated"
	EventActivated  EventType = "container.entry.activated"
	EventRemoved    EventType = "container.entry.removed"
	EventProgrammer EventType = "container.error.programmer"
)

// Event is a single observability event.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics fan-out.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
	// AcceptsVerbose reports whether this observer wants LevelTrace/LevelVerbose
	// events. The container samples this once at Start() to decide its
	// single hot-path trace boolean (see design note on the global trace
	// flag) instead of branching on level per call.
	AcceptsVerbose() bool
}
