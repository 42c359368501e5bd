package store

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/tailored-agentic-units/redux/observability"
)

// Option configures a Store after config-driven initialization.
type Option func(*Store)

// WithObserver overrides the observer named in the config.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithTracer overrides the tracer from the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}
