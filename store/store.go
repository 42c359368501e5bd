package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tailored-agentic-units/redux/binding"
	"github.com/tailored-agentic-units/redux/config"
	"github.com/tailored-agentic-units/redux/observability"
	"github.com/tailored-agentic-units/redux/state"
)

const tracerName = "github.com/tailored-agentic-units/redux/store"

// Action is the integer message dispatched to a store. Callables receive it
// as an int64.
type Action int64

// Store holds one State and routes Actions through middleware, a reducer and
// subscribers.
//
// All methods are safe for concurrent use, but the store is designed around a
// single writer: a Dispatch issued while another is in flight is queued or
// rejected according to the configured re-entrancy policy. The internal lock
// is never held while a Callable runs, so Callables may call back into the
// store.
type Store struct {
	id         string
	name       string
	policy     string
	maxPending int
	observer   observability.Observer
	tracer     trace.Tracer
	metrics    *Metrics

	mu          sync.Mutex
	current     state.State
	reducer     binding.Callable
	middleware  []binding.Callable
	subscribers []binding.Callable
	dispatching bool
	pending     []Action
	retired     []binding.Releaser
}

// New creates a store from configuration.
//
// The observer is resolved by name from the observability registry and the
// tracer comes from the global OpenTelemetry provider; both can be replaced
// with options.
//
// Example:
//
//	cfg := config.DefaultStoreConfig("counter")
//	s, err := store.New(cfg, store.WithObserver(observability.NewSlogObserver(logger)))
//	if err != nil {
//	    // Handle config or observer resolution error
//	}
func New(cfg config.StoreConfig, opts ...Option) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	s := &Store{
		id:         uuid.Must(uuid.NewV7()).String(),
		name:       cfg.Name,
		policy:     cfg.Reentrancy,
		maxPending: cfg.MaxPending,
		observer:   observer,
		tracer:     otel.Tracer(tracerName),
		metrics:    NewMetrics(),
		current:    cfg.InitialState.Clone(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.observer == nil {
		s.observer = observability.NoOpObserver{}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.maxPending == 0 {
		s.maxPending = config.DefaultMaxPending
	}

	return s, nil
}

// ID returns the store's UUIDv7.
func (s *Store) ID() string {
	return s.id
}

// Name returns the configured store name.
func (s *Store) Name() string {
	return s.name
}

// Metrics returns a snapshot of the store's counters.
func (s *Store) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// SetStateAndReducer replaces the state, installs reducer, and clears all
// middleware and subscribers.
//
// A dispatch already in flight keeps the bindings it started with; the new
// configuration applies from the next dispatch. Dropped bindings that
// implement binding.Releaser are released once no dispatch is in flight.
func (s *Store) SetStateAndReducer(initial state.State, reducer binding.Callable) error {
	if reducer == nil {
		return fmt.Errorf("%w: reducer is nil", binding.ErrInvalidBinding)
	}

	s.mu.Lock()
	dropped := releasers(reducer, s.reducer, s.middleware, s.subscribers)
	s.current = initial.Clone()
	s.reducer = reducer
	s.middleware = nil
	s.subscribers = nil
	if s.dispatching {
		s.retired = append(s.retired, dropped...)
		dropped = nil
	}
	s.mu.Unlock()

	release(dropped)

	s.emit(context.Background(), EventConfigure, observability.LevelInfo, map[string]any{
		"reducer": reducer.Name(),
		"keys":    initial.Len(),
	})
	return nil
}

// GetState returns the current state. The returned value is immutable and
// independent of later dispatches.
func (s *Store) GetState() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// AddMiddleware appends mw to the middleware chain.
func (s *Store) AddMiddleware(mw binding.Callable) error {
	if mw == nil {
		return fmt.Errorf("%w: middleware is nil", binding.ErrInvalidBinding)
	}

	s.mu.Lock()
	s.middleware = append(s.middleware, mw)
	position := len(s.middleware) - 1
	s.mu.Unlock()

	s.emit(context.Background(), EventMiddlewareAdd, observability.LevelVerbose, map[string]any{
		"name":     mw.Name(),
		"position": position,
	})
	return nil
}

// Subscribe appends sub to the subscriber list.
func (s *Store) Subscribe(sub binding.Callable) error {
	if sub == nil {
		return fmt.Errorf("%w: subscriber is nil", binding.ErrInvalidBinding)
	}

	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	position := len(s.subscribers) - 1
	s.mu.Unlock()

	s.emit(context.Background(), EventSubscribe, observability.LevelVerbose, map[string]any{
		"name":     sub.Name(),
		"position": position,
	})
	return nil
}

// Dispatch runs action through the middleware chain, the reducer and the
// subscribers.
//
// Middleware cancellation and reducer fallback are not errors: Dispatch
// returns nil for both. It returns ErrMissingReducer before any middleware
// runs when no reducer is set, ctx.Err() when ctx is done, a *DispatchError
// when a Callable fails, and ErrReentrantDispatch or ErrQueueFull when the
// re-entrancy policy refuses a nested dispatch.
//
// Under the queue policy a nested dispatch returns nil immediately and runs
// after the in-flight dispatch, on the goroutine that owns it. Queued actions
// are dropped if a dispatch fails.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.reducer == nil {
		s.mu.Unlock()
		s.metrics.RecordFailure()
		s.emit(ctx, EventDispatchError, observability.LevelError, map[string]any{
			"action": int64(action),
			"error":  ErrMissingReducer.Error(),
		})
		return ErrMissingReducer
	}

	if s.dispatching {
		err := s.enqueue(action)
		s.mu.Unlock()
		return s.reportNested(ctx, action, err)
	}

	s.dispatching = true
	s.mu.Unlock()

	settled := false
	defer func() {
		if !settled {
			s.settle()
		}
	}()

	for {
		err := s.run(ctx, action)

		s.mu.Lock()
		if err != nil || len(s.pending) == 0 {
			s.mu.Unlock()
			settled = true
			s.settle()
			return err
		}
		action = s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
	}
}

// settle ends the in-flight dispatch, drops queued actions, and releases
// bindings retired while it ran.
func (s *Store) settle() {
	s.mu.Lock()
	s.dispatching = false
	s.pending = nil
	retired := s.retired
	s.retired = nil
	s.mu.Unlock()

	release(retired)
}

// releasers collects the Releasers among the dropped bindings, skipping
// keep.
func releasers(keep binding.Callable, reducer binding.Callable, lists ...[]binding.Callable) []binding.Releaser {
	var out []binding.Releaser
	add := func(c binding.Callable) {
		r, ok := c.(binding.Releaser)
		if !ok {
			return
		}
		if reflect.TypeOf(c).Comparable() && c == keep {
			return
		}
		out = append(out, r)
	}

	if reducer != nil {
		add(reducer)
	}
	for _, list := range lists {
		for _, c := range list {
			add(c)
		}
	}
	return out
}

func release(rs []binding.Releaser) {
	for _, r := range rs {
		r.Release()
	}
}

// enqueue applies the re-entrancy policy. Caller holds s.mu.
func (s *Store) enqueue(action Action) error {
	if s.policy == config.ReentrancyReject {
		return ErrReentrantDispatch
	}
	if s.maxPending > 0 && len(s.pending) >= s.maxPending {
		return ErrQueueFull
	}
	s.pending = append(s.pending, action)
	return nil
}

func (s *Store) reportNested(ctx context.Context, action Action, err error) error {
	if err != nil {
		s.metrics.RecordRejected()
		s.emit(ctx, EventDispatchRejected, observability.LevelWarning, map[string]any{
			"action": int64(action),
			"error":  err.Error(),
		})
		return err
	}

	s.metrics.RecordQueued()
	s.emit(ctx, EventDispatchQueued, observability.LevelVerbose, map[string]any{
		"action": int64(action),
	})
	return nil
}

// run performs one dispatch with the bindings registered when it starts.
func (s *Store) run(ctx context.Context, action Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	reducer := s.reducer
	middleware := slices.Clone(s.middleware)
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	dispatchID := uuid.Must(uuid.NewV7()).String()
	ctx, span := s.tracer.Start(ctx, "redux.dispatch", trace.WithAttributes(
		attribute.String("redux.store", s.name),
		attribute.String("redux.dispatch_id", dispatchID),
		attribute.Int64("redux.action", int64(action)),
	))
	defer span.End()

	s.metrics.RecordDispatch()
	s.emit(ctx, EventDispatchStart, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action":      int64(action),
		"middleware":  len(middleware),
		"subscribers": len(subscribers),
	})

	fail := func(stage Stage, position int, c binding.Callable, at Action, err error) error {
		dispatchErr := &DispatchError{
			DispatchID: dispatchID,
			Stage:      stage,
			Position:   position,
			Callable:   c.Name(),
			Action:     at,
			Err:        err,
		}
		s.metrics.RecordFailure()
		span.RecordError(dispatchErr)
		span.SetStatus(codes.Error, string(stage))
		s.emit(ctx, EventDispatchError, observability.LevelError, map[string]any{
			"dispatch_id": dispatchID,
			"stage":       string(stage),
			"position":    position,
			"name":        c.Name(),
			"error":       err.Error(),
		})
		return dispatchErr
	}

	current := action
	for i, mw := range middleware {
		result, err := mw.Invoke(ctx, s.GetState(), int64(current))
		if err != nil {
			return fail(StageMiddleware, i, mw, current, err)
		}

		next, ok := result.Int()
		if !ok {
			s.metrics.RecordCancellation()
			span.SetAttributes(attribute.Bool("redux.cancelled", true))
			s.emit(ctx, EventMiddlewareCancel, observability.LevelInfo, map[string]any{
				"dispatch_id": dispatchID,
				"position":    i,
				"name":        mw.Name(),
				"action":      int64(current),
			})
			return nil
		}

		s.emit(ctx, EventMiddlewareStep, observability.LevelVerbose, map[string]any{
			"dispatch_id": dispatchID,
			"position":    i,
			"name":        mw.Name(),
			"from":        int64(current),
			"to":          next,
		})
		current = Action(next)
	}

	result, err := reducer.Invoke(ctx, s.GetState(), int64(current))
	if err != nil {
		return fail(StageReducer, 0, reducer, current, err)
	}

	next, ok := result.State()
	if ok {
		s.emit(ctx, EventReducerApply, observability.LevelVerbose, map[string]any{
			"dispatch_id": dispatchID,
			"action":      int64(current),
			"keys":        next.Len(),
		})
	} else {
		next = state.Empty()
		s.metrics.RecordFallback()
		value, _ := result.Value()
		s.emit(ctx, EventReducerFallback, observability.LevelWarning, map[string]any{
			"dispatch_id": dispatchID,
			"action":      int64(current),
			"returned":    fmt.Sprintf("%T", value),
		})
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.metrics.RecordReduction()

	for i, sub := range subscribers {
		if _, err := sub.Invoke(ctx, next); err != nil {
			return fail(StageSubscriber, i, sub, current, err)
		}
		s.metrics.RecordNotifications(1)
		s.emit(ctx, EventSubscriberNotify, observability.LevelVerbose, map[string]any{
			"dispatch_id": dispatchID,
			"position":    i,
			"name":        sub.Name(),
		})
	}

	s.emit(ctx, EventDispatchComplete, observability.LevelInfo, map[string]any{
		"dispatch_id": dispatchID,
		"action":      int64(action),
		"reduced":     int64(current),
	})
	return nil
}

func (s *Store) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	data["store_id"] = s.id
	s.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    s.name,
		Data:      data,
	})
}
