package observability

import (
	"context"
	"log/slog"
)

// SlogObserver emits events through a *slog.Logger. The event type becomes
// the log message and Data entries are flattened as attributes.
type SlogObserver struct {
	logger  *slog.Logger
	verbose bool
}

// NewSlogObserver builds a SlogObserver. verbose controls AcceptsVerbose,
// which the container samples once at Start() to decide whether trace-level
// events are worth constructing on the hot path at all.
func NewSlogObserver(logger *slog.Logger, verbose bool) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger, verbose: verbose}
}

func (o *SlogObserver) AcceptsVerbose() bool { return o.verbose }

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("source", event.Source))
	for k, v := range event.Data {
		attrs = append(attrs, slog.Any(k, v))
	}
	o.logger.LogAttrs(ctx, slogLevel(event.Level), string(event.Type), attrs...)
}

func slogLevel(l Level) slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

var _ Observer = (*SlogObserver)(nil)
