package graph

import "log/slog"

// EventKind identifies a stage transition during a run.
type EventKind string

// Event kinds emitted by the runtime.
const (
	EventDelivered EventKind = "delivered"
	EventProcessed EventKind = "processed"
	EventResult    EventKind = "result"
	EventDropped   EventKind = "dropped"
	EventFailed    EventKind = "failed"
)

// Event describes a single stage transition.
type Event struct {
	Graph string
	Stage string
	Kind  EventKind
	Err   error
}

// Observer receives stage transition events. Observers must be safe for
// concurrent use; parallel branches report events concurrently.
type Observer func(Event)

// NoopObserver discards all events.
func NoopObserver() Observer {
	return func(Event) {}
}

// SlogObserver logs stage transitions at debug level, failures at error level.
func SlogObserver(logger *slog.Logger) Observer {
	return func(e Event) {
		if e.Kind == EventFailed {
			logger.Error("stage failed", "graph", e.Graph, "stage", e.Stage, "error", e.Err)
			return
		}
		logger.Debug("stage transition", "graph", e.Graph, "stage", e.Stage, "event", string(e.Kind))
	}
}
