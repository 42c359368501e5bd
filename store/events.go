package store

import "github.com/tailored-agentic-units/redux/observability"

const (
	// Configuration
	EventConfigure     observability.EventType = "store.configure"
	EventMiddlewareAdd observability.EventType = "store.middleware.add"
	EventSubscribe     observability.EventType = "store.subscribe"

	// Dispatch lifecycle
	EventDispatchStart    observability.EventType = "store.dispatch.start"
	EventDispatchQueued   observability.EventType = "store.dispatch.queued"
	EventDispatchRejected observability.EventType = "store.dispatch.rejected"
	EventDispatchComplete observability.EventType = "store.dispatch.complete"
	EventDispatchError    observability.EventType = "store.dispatch.error"

	// Pipeline stages
	EventMiddlewareStep   observability.EventType = "store.middleware.step"
	EventMiddlewareCancel observability.EventType = "store.middleware.cancel"
	EventReducerApply     observability.EventType = "store.reducer.apply"
	EventReducerFallback  observability.EventType = "store.reducer.fallback"
	EventSubscriberNotify observability.EventType = "store.subscriber.notify"
)
