// Package observability provides the event model redux stores report through.
// Level values align with OpenTelemetry SeverityNumbers so events translate
// directly into OTel log records and span events.
//
// Stores never log on their own. They emit Events to an Observer, and the host
// decides where those go: nowhere (NoOpObserver), a slog.Logger
// (SlogObserver), the active trace span (OTelObserver), or several at once
// (MultiObserver).
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8), maps to slog.LevelDebug
	LevelInfo    Level = 9  // OTel INFO (9-12), maps to slog.LevelInfo
	LevelWarning Level = 13 // OTel WARN (13-16), maps to slog.LevelWarn
	LevelError   Level = 17 // OTel ERROR (17-20), maps to slog.LevelError
)

// String returns the OTel severity text for the level.
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
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
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

// EventType identifies the kind of event, e.g. "store.dispatch.start".
// Packages that emit events define their own constants of this type.
type EventType string

// Event is a single observable occurrence. Fields map to OTel LogRecord
// fields: Type→EventName, Level→SeverityNumber, Timestamp→Timestamp,
// Source→InstrumentationScope, Data→Attributes.
//
// Data carries execution metadata (positions, counts, ids), never the
// store's state itself.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events. Implementations must not affect the emitter:
// OnEvent has no error return and should not block.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
